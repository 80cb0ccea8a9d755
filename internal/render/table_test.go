package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/mount"
	"github.com/hpctools/ldf/pkg/units"
)

func TestTableASCII(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:  cols.Cols{cols.Filesystem, cols.Use},
		Units: units.SI,
		ASCII: true,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{rootMount()}))
	want := "" +
		"+------------+------------+\n" +
		"| filesystem |   use %    |\n" +
		"+------------+------------+\n" +
		"| /dev/sda1  |  60% ###-- |\n" +
		"+------------+------------+\n"
	assert.Equal(t, want, buf.String())
}

func TestTableUnicodeBorders(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:  cols.Cols{cols.Filesystem, cols.Size},
		Units: units.SI,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{rootMount()}))
	out := buf.String()
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "┼")
	assert.Contains(t, out, "┘")
	assert.Contains(t, out, "│ /dev/sda1")
	assert.NotContains(t, out, "\x1b[")
}

func TestTableColor(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:  cols.Cols{cols.Filesystem, cols.Size},
		Units: units.SI,
		Color: true,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{rootMount()}))
	assert.Contains(t, buf.String(), "\x1b[33m") // size column is yellow
}

func TestTableRemoteMark(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:  cols.Cols{cols.Filesystem, cols.Remote},
		Units: units.SI,
		ASCII: true,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{rootMount(), nfsMount()}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.NotContains(t, lines[3], "x") // local mount
	assert.Contains(t, lines[4], "x")    // nfs mount
}

func TestTableUnreachable(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:  cols.Cols{cols.Filesystem, cols.Use},
		Units: units.SI,
		ASCII: true,
	})
	require.NoError(t, err)

	dead := nfsMount()
	dead.Stats = nil
	dead.Unreachable = true

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{dead}))
	assert.Contains(t, buf.String(), "unreachable")
}

func TestTableLustreViewSeparator(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:       cols.Cols{cols.Filesystem, cols.MountPoint},
		Units:      units.SI,
		ASCII:      true,
		LustreView: true,
	})
	require.NoError(t, err)

	client := &mount.Mount{
		Info: mount.Info{
			MountPoint: "/scratch",
			Source:     "scratch@lustre",
			FSType:     "lustre",
		},
		Lustre: &mount.LustreInfo{FSName: "scratch", ComponentType: "CLIENT"},
	}
	mdt := &mount.Mount{
		Info: mount.Info{
			MountPoint: "/scratch[MDT:0]",
			Source:     "scratch-MDT0000_UUID",
			FSType:     "lustre",
		},
		Lustre: &mount.LustreInfo{FSName: "scratch", ComponentType: "MDT"},
	}
	ost := &mount.Mount{
		Info: mount.Info{
			MountPoint: "/scratch[OST:0]",
			Source:     "scratch-OST0000_UUID",
			FSType:     "lustre",
		},
		Lustre: &mount.LustreInfo{FSName: "scratch", ComponentType: "OST"},
	}

	// the pipeline orders the client summary first, then the components
	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{client, mdt, ost}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// frame, header, frame, client, blank, mdt, ost, frame
	require.Len(t, lines, 8)
	assert.Contains(t, lines[3], "/scratch")
	assert.Equal(t, "", strings.Trim(lines[4], "| "))
	assert.Contains(t, lines[5], "[MDT:0]")
	assert.Contains(t, lines[6], "[OST:0]")
	assert.True(t, strings.HasPrefix(lines[7], "+"))
}

func TestTableLustreViewSummaryOnly(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:       cols.Cols{cols.Filesystem, cols.MountPoint},
		Units:      units.SI,
		ASCII:      true,
		LustreView: true,
	})
	require.NoError(t, err)

	client := &mount.Mount{
		Info: mount.Info{
			MountPoint: "/scratch",
			Source:     "scratch@lustre",
			FSType:     "lustre",
		},
		Lustre: &mount.LustreInfo{FSName: "scratch", ComponentType: "CLIENT"},
	}

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{client}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// frame, header, frame, client, frame: no separator without components
	require.Len(t, lines, 5)
}

func TestTableInodesMode(t *testing.T) {
	p, err := New(FormatTable, Options{
		Cols:       cols.Cols{cols.Filesystem, cols.Size, cols.Use},
		Units:      units.SI,
		ASCII:      true,
		InodesMode: true,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, []*mount.Mount{rootMount()}))
	out := buf.String()
	assert.Contains(t, out, "inodes total")
	assert.Contains(t, out, "1000000")
	assert.Contains(t, out, "10% #----")
}
