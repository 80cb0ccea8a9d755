package cols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpctools/ldf/pkg/mount"
)

func TestParseCol(t *testing.T) {
	c, err := ParseCol("size")
	require.NoError(t, err)
	assert.Equal(t, Size, c)

	// aliases
	for alias, want := range map[string]Col{
		"mp":          MountPoint,
		"filesystem":  Filesystem,
		"rem":         Remote,
		"ifree":       InodesFree,
		"stripes":     StripeCount,
		"comp_type":   ComponentType,
		"device_id":   Dev,
		"inodes_use":  InodesUse,
		"part_uuid":   PartUUID,
	} {
		c, err := ParseCol(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, c, alias)
	}

	_, err = ParseCol("nope")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, []Col{Filesystem, Used, Use, Free, Size, MountPoint}, Defaults())
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "bytes used", Used.Title(false))
	assert.Equal(t, "inodes used", Used.Title(true))
	assert.Equal(t, "mount point", MountPoint.Title(false))
	assert.Equal(t, "mount point", MountPoint.Title(true))
}

func TestDefaultOrder(t *testing.T) {
	assert.Equal(t, Desc, Size.DefaultOrder())
	assert.Equal(t, Desc, Use.DefaultOrder())
	assert.Equal(t, Asc, MountPoint.DefaultOrder())
}

func mountWithSize(size uint64) *mount.Mount {
	return &mount.Mount{Stats: &mount.Stats{
		BlockSize:   1,
		Blocks:      size,
		BlocksFree:  size / 2,
		BlocksAvail: size / 2,
	}}
}

func TestCompareSize(t *testing.T) {
	small := mountWithSize(100)
	big := mountWithSize(1000)
	noStats := &mount.Mount{}

	assert.Negative(t, Size.Compare(small, big))
	assert.Positive(t, Size.Compare(big, small))
	assert.Zero(t, Size.Compare(big, big))
	// missing values order before present ones
	assert.Negative(t, Size.Compare(noStats, small))
}

func TestCompareLabel(t *testing.T) {
	a := &mount.Mount{Label: "alpha"}
	b := &mount.Mount{Label: "beta"}
	none := &mount.Mount{}

	assert.Negative(t, Label.Compare(a, b))
	// labeled mounts order before unlabeled ones
	assert.Negative(t, Label.Compare(a, none))
	assert.Positive(t, Label.Compare(none, b))
}

func TestCompareUse(t *testing.T) {
	low := &mount.Mount{Stats: &mount.Stats{BlockSize: 1, Blocks: 100, BlocksFree: 90, BlocksAvail: 90}}
	high := &mount.Mount{Stats: &mount.Stats{BlockSize: 1, Blocks: 100, BlocksFree: 10, BlocksAvail: 10}}

	assert.Negative(t, Use.Compare(low, high))
	// free percent sorts the opposite way
	assert.Positive(t, FreePercent.Compare(low, high))
}

func TestCompareRemote(t *testing.T) {
	local := &mount.Mount{Info: mount.Info{FSType: "ext4"}}
	remote := &mount.Mount{Info: mount.Info{FSType: "nfs4"}}
	assert.Negative(t, Remote.Compare(local, remote))
}

func TestCompareLustre(t *testing.T) {
	a := &mount.Mount{Lustre: &mount.LustreInfo{StripeCount: 1, ComponentIndex: 3}}
	b := &mount.Mount{Lustre: &mount.LustreInfo{StripeCount: 4, ComponentIndex: 1}}
	plain := &mount.Mount{}

	assert.Negative(t, StripeCount.Compare(a, b))
	assert.Positive(t, ComponentIndex.Compare(a, b))
	// mounts without lustre info count as zero
	assert.Positive(t, StripeCount.Compare(a, plain))
}

func TestAlignments(t *testing.T) {
	assert.Equal(t, AlignLeft, MountPoint.ContentAlign())
	assert.Equal(t, AlignLeft, Label.HeaderAlign())
	assert.Equal(t, AlignCenter, Size.ContentAlign())
	assert.Equal(t, AlignCenter, Used.HeaderAlign())
}
