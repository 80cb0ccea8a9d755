package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpctools/ldf/pkg/mount"
)

func TestPrintColumnList(t *testing.T) {
	var buf bytes.Buffer
	printColumnList(&buf)
	out := buf.String()

	assert.Contains(t, out, "name")
	assert.Contains(t, out, "description")
	assert.Contains(t, out, "stripe_count")

	// default columns are marked
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "size ") {
			assert.Contains(t, line, "x")
		}
	}
}

func TestKeep(t *testing.T) {
	mounts := []*mount.Mount{
		{Info: mount.Info{FSType: "ext4"}},
		{Info: mount.Info{FSType: "proc"}},
		{Info: mount.Info{FSType: "ext4"}},
	}
	out := keep(mounts, func(m *mount.Mount) bool { return m.FSType == "ext4" })
	require.Len(t, out, 2)
	for _, m := range out {
		assert.Equal(t, "ext4", m.FSType)
	}
}

func TestDropLustreServerComponents(t *testing.T) {
	mounts := []*mount.Mount{
		{Info: mount.Info{FSType: "lustre", MountPoint: "/mnt/scratch-ost0"}},
		{Info: mount.Info{FSType: "lustre", MountPoint: "/scratch"}},
		{Info: mount.Info{FSType: "ext4", MountPoint: "/"}},
	}
	out := dropLustreServerComponents(mounts)
	require.Len(t, out, 2)
	assert.Equal(t, "/scratch", out[0].MountPoint)
	assert.Equal(t, "/", out[1].MountPoint)
}

func TestResolveColor(t *testing.T) {
	assert.True(t, resolveColor("yes"))
	assert.False(t, resolveColor("no"))
}
