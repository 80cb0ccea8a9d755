package lustre

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpctools/ldf/pkg/mount"
)

const sampleDF = `UUID                   1K-blocks        Used   Available Use% Mounted on
scratch-MDT0000_UUID      125368       16500      100304  14% /mnt/scratch[MDT:0]
scratch-OST0000_UUID     1968528       97188     1766856   5% /mnt/scratch[OST:0]
scratch-OST0001_UUID     1968528      196856     1667188  10% /mnt/scratch[OST:1]
scratch-OST0002_UUID : inactive device
filesystem_summary:      3937056      294044     3434044   8% /mnt/scratch
`

const sampleDFInodes = `UUID                      Inodes       IUsed       IFree IUse% Mounted on
scratch-MDT0000_UUID      100000        1520       98480    2% /mnt/scratch[MDT:0]
scratch-OST0000_UUID       50000         600       49400    2% /mnt/scratch[OST:0]
scratch-OST0001_UUID       50000        1200       48800    3% /mnt/scratch[OST:1]
filesystem_summary:       100000        1520       98480    2% /mnt/scratch
`

func TestParseDF(t *testing.T) {
	mounts, err := parseDF([]byte(sampleDF))
	require.NoError(t, err)
	require.Len(t, mounts, 5)

	mdt := mounts[0]
	assert.Equal(t, "scratch-MDT0000_UUID", mdt.Source)
	assert.Equal(t, "lustre", mdt.FSType)
	assert.Equal(t, "/mnt/scratch[MDT:0]", mdt.MountPoint)
	assert.Equal(t, mount.DeviceID{Major: 1, Minor: 0}, mdt.Dev)
	assert.Equal(t, "scratch-MDT", mdt.Label)
	require.NotNil(t, mdt.Stats)
	assert.Equal(t, uint64(125368*1024), mdt.Stats.Size())
	assert.Equal(t, uint64(16500*1024), mdt.Stats.Used())
	assert.Equal(t, uint64(100304*1024), mdt.Stats.Available())
	require.NotNil(t, mdt.Lustre)
	assert.Equal(t, ComponentMDT, mdt.Lustre.ComponentType)
	assert.Equal(t, "scratch", mdt.Lustre.FSName)

	ost1 := mounts[2]
	assert.Equal(t, mount.DeviceID{Major: 2, Minor: 1}, ost1.Dev)
	assert.Equal(t, uint32(1), ost1.Lustre.ComponentIndex)

	inactive := mounts[3]
	assert.True(t, inactive.Unreachable)
	assert.Nil(t, inactive.Stats)
	// the pseudo mount point is derived from the summary row
	assert.Equal(t, "/mnt/scratch[OST:2]", inactive.MountPoint)

	client := mounts[4]
	assert.Equal(t, "scratch@lustre", client.Source)
	assert.Equal(t, "/mnt/scratch", client.MountPoint)
	assert.Equal(t, "Lustre-scratch", client.Label)
	assert.Equal(t, ComponentClient, client.Lustre.ComponentType)
	require.NotNil(t, client.Stats)
	assert.Equal(t, uint64(3937056*1024), client.Stats.Size())
}

func TestParseDFHexIndex(t *testing.T) {
	out := `UUID                   1K-blocks        Used   Available Use% Mounted on
scratch-OST01a3_UUID     1968528       97188     1766856   5% /mnt/scratch[OST:419]
filesystem_summary:      1968528       97188     1766856   5% /mnt/scratch
`
	mounts, err := parseDF([]byte(out))
	require.NoError(t, err)
	require.Len(t, mounts, 2)
	assert.Equal(t, uint32(0x01a3), mounts[0].Lustre.ComponentIndex)
}

func TestParseDFTruncated(t *testing.T) {
	// output cut off before the filesystem_summary row
	out := `UUID                   1K-blocks        Used   Available Use% Mounted on
scratch-OST0000_UUID     1968528       97188     1766856   5% /mnt/scratch[OST:0]
scratch-OST0001_UUID : inactive device
`
	mounts, err := parseDF([]byte(out))
	require.NoError(t, err)
	require.Len(t, mounts, 2)
	assert.Equal(t, "/mnt/scratch[OST:0]", mounts[0].MountPoint)
	// the inactive component still gets an identifiable mount point
	assert.Equal(t, "[OST:1]", mounts[1].MountPoint)
	assert.True(t, mounts[1].Unreachable)
}

func TestMergeInodes(t *testing.T) {
	mounts, err := parseDF([]byte(sampleDF))
	require.NoError(t, err)
	require.NoError(t, mergeInodes(mounts, []byte(sampleDFInodes)))

	mdt := mounts[0]
	require.NotNil(t, mdt.Inodes)
	assert.Equal(t, uint64(100000), mdt.Inodes.Files)
	assert.Equal(t, uint64(98480), mdt.Inodes.Avail)
	assert.Equal(t, uint64(1520), mdt.Inodes.Used())

	// the inactive OST got no inode row
	assert.Nil(t, mounts[3].Inodes)

	client := mounts[4]
	require.NotNil(t, client.Inodes)
	assert.Equal(t, uint64(100000), client.Inodes.Files)
}

func TestParseStripe(t *testing.T) {
	out := []byte("stripe_count:  4 stripe_size:   1048576 pattern:       raid0 stripe_offset: -1 pool: flash\n")
	info := &mount.LustreInfo{}
	parseStripe(out, info)
	assert.Equal(t, uint64(4), info.StripeCount)
	assert.Equal(t, uint64(1048576), info.StripeSize)
	assert.Equal(t, "flash", info.PoolName)
}

func TestIsServerComponentPath(t *testing.T) {
	assert.True(t, IsServerComponentPath("/mnt/scratch-ost0"))
	assert.True(t, IsServerComponentPath("/mnt/lustre/mdt0"))
	assert.True(t, IsServerComponentPath("/srv/scratch/ost3"))
	assert.False(t, IsServerComponentPath("/mnt/scratch"))
	assert.False(t, IsServerComponentPath("/home"))
}

func TestIsComponentMountPoint(t *testing.T) {
	assert.True(t, IsComponentMountPoint("/mnt/scratch[OST:0]"))
	assert.True(t, IsComponentMountPoint("/mnt/scratch[MDT:12]"))
	assert.False(t, IsComponentMountPoint("/mnt/scratch"))
}

func TestMergeReplacesClientMount(t *testing.T) {
	plain := &mount.Mount{Info: mount.Info{
		FSType:     "lustre",
		MountPoint: "/mnt/scratch",
		Source:     "10.0.0.1@tcp:/scratch",
	}}
	other := &mount.Mount{Info: mount.Info{FSType: "ext4", MountPoint: "/"}}

	discovered, err := parseDF([]byte(sampleDF))
	require.NoError(t, err)

	merged := Merge([]*mount.Mount{other, plain}, discovered)
	require.Len(t, merged, 6)
	assert.Same(t, other, merged[0])
	// the table client mount was replaced by the discovered one
	assert.Equal(t, "scratch@lustre", merged[1].Source)
}

func TestLessOrdersComponents(t *testing.T) {
	mounts, err := parseDF([]byte(sampleDF))
	require.NoError(t, err)
	sort.SliceStable(mounts, func(i, j int) bool { return Less(mounts[i], mounts[j]) })

	assert.Equal(t, ComponentClient, mounts[0].Lustre.ComponentType)
	assert.Equal(t, ComponentMDT, mounts[1].Lustre.ComponentType)
	assert.Equal(t, ComponentOST, mounts[2].Lustre.ComponentType)
	assert.Equal(t, uint32(0), mounts[2].Lustre.ComponentIndex)
	assert.Equal(t, uint32(2), mounts[4].Lustre.ComponentIndex)
}
