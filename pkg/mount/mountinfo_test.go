package mount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMountInfo = `22 61 0:21 / /proc rw,nosuid,nodev,noexec,relatime shared:12 - proc proc rw
61 1 8:2 / / rw,relatime shared:1 - ext4 /dev/sda2 rw
75 61 8:3 / /home rw,relatime shared:30 - ext4 /dev/sda3 rw
92 61 8:3 /data /srv/data rw,relatime shared:31 - ext4 /dev/sda3 rw
103 61 0:48 / /mnt/backup rw,relatime shared:50 - nfs4 server:/backup rw,vers=4.2
110 61 8:16 / /mnt/usb\040drive rw,relatime shared:60 - vfat /dev/sdb rw
`

func TestParseMountInfo(t *testing.T) {
	infos, err := parseMountInfo(strings.NewReader(sampleMountInfo))
	require.NoError(t, err)
	require.Len(t, infos, 6)

	root := infos[1]
	assert.Equal(t, 61, root.ID)
	assert.Equal(t, 1, root.ParentID)
	assert.Equal(t, DeviceID{8, 2}, root.Dev)
	assert.Equal(t, "/", root.MountPoint)
	assert.Equal(t, "ext4", root.FSType)
	assert.Equal(t, "/dev/sda2", root.Source)
	assert.False(t, root.Bound)

	nfs := infos[4]
	assert.Equal(t, "nfs4", nfs.FSType)
	assert.Equal(t, "server:/backup", nfs.Source)
	assert.True(t, nfs.Remote())
}

func TestParseMountInfoBoundMounts(t *testing.T) {
	infos, err := parseMountInfo(strings.NewReader(sampleMountInfo))
	require.NoError(t, err)

	// /srv/data re-exposes the device of /home
	assert.False(t, infos[2].Bound)
	assert.True(t, infos[3].Bound)
}

func TestParseMountInfoOctalEscapes(t *testing.T) {
	infos, err := parseMountInfo(strings.NewReader(sampleMountInfo))
	require.NoError(t, err)
	assert.Equal(t, "/mnt/usb drive", infos[5].MountPoint)
}

func TestParseMountInfoOptionalFields(t *testing.T) {
	// multiple optional fields before the separator
	line := "36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 shared:42 - ext3 /dev/root rw,errors=continue"
	infos, err := parseMountInfo(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "ext3", infos[0].FSType)
	assert.Equal(t, "/dev/root", infos[0].Source)
	assert.Equal(t, "/mnt1", infos[0].Root)
}

func TestParseMountInfoInvalid(t *testing.T) {
	_, err := parseMountInfo(strings.NewReader("garbage line\n"))
	assert.Error(t, err)

	_, err = parseMountInfo(strings.NewReader("a b 8:0 / / rw x - ext4 /dev/sda1 rw\n"))
	assert.Error(t, err)
}

func TestUnescapeOctal(t *testing.T) {
	assert.Equal(t, "no escapes", unescapeOctal("no escapes"))
	assert.Equal(t, "a b", unescapeOctal(`a\040b`))
	assert.Equal(t, `trailing\`, unescapeOctal(`trailing\`))
}
