package mount

import (
	"fmt"
	"strings"
)

// DeviceID identifies the block device backing a mount, as reported
// by the kernel in /proc/self/mountinfo.
type DeviceID struct {
	Major uint32
	Minor uint32
}

func (d DeviceID) String() string {
	return fmt.Sprintf("%d:%d", d.Major, d.Minor)
}

// Compare orders device ids by major then minor.
func (d DeviceID) Compare(o DeviceID) int {
	if d.Major != o.Major {
		if d.Major < o.Major {
			return -1
		}
		return 1
	}
	switch {
	case d.Minor < o.Minor:
		return -1
	case d.Minor > o.Minor:
		return 1
	}
	return 0
}

// Info holds the identity of a mount: one parsed line of the kernel
// mount table.
type Info struct {
	ID         int
	ParentID   int
	Dev        DeviceID
	Root       string
	MountPoint string
	Source     string // device or remote source, e.g. /dev/sda1 or host:/export
	FSType     string
	Bound      bool // bind mount of another listed mount
}

// remoteFSTypes are filesystem types which are always network-backed.
var remoteFSTypes = map[string]bool{
	"nfs":         true,
	"nfs2":        true,
	"nfs3":        true,
	"nfs4":        true,
	"cifs":        true,
	"smb":         true,
	"smb2":        true,
	"smbfs":       true,
	"sshfs":       true,
	"fuse.sshfs":  true,
	"lustre":      true,
	"9p":          true,
	"afs":         true,
	"ceph":        true,
	"glusterfs":   true,
	"fuse.cephfs": true,
}

// Remote reports whether the mount is backed by a network filesystem.
func (i *Info) Remote() bool {
	if remoteFSTypes[i.FSType] {
		return true
	}
	// host:/path sources denote remote filesystems even for fuse types
	return strings.Contains(i.Source, ":/")
}

// Stats holds the block statistics of a mounted filesystem.
type Stats struct {
	BlockSize   uint64
	Blocks      uint64
	BlocksFree  uint64
	BlocksAvail uint64
}

// Size returns the total size in bytes.
func (s *Stats) Size() uint64 { return s.Blocks * s.BlockSize }

// Used returns the used size in bytes.
func (s *Stats) Used() uint64 { return (s.Blocks - s.BlocksFree) * s.BlockSize }

// Available returns the bytes available to unprivileged users.
func (s *Stats) Available() uint64 { return s.BlocksAvail * s.BlockSize }

// UseShare returns the used fraction in [0, 1].
func (s *Stats) UseShare() float64 {
	if s.Blocks == 0 {
		return 0
	}
	return float64(s.Blocks-s.BlocksFree) / float64(s.Blocks)
}

// Inodes holds the inode statistics of a mounted filesystem. Some
// filesystems (e.g. btrfs) report no inode counts at all, in which
// case the whole struct is absent from the Mount.
type Inodes struct {
	Files uint64 // total inode count
	Free  uint64
	Avail uint64
}

// Used returns the number of used inodes.
func (i *Inodes) Used() uint64 { return i.Files - i.Free }

// UseShare returns the used fraction in [0, 1].
func (i *Inodes) UseShare() float64 {
	if i.Files == 0 {
		return 0
	}
	return float64(i.Files-i.Free) / float64(i.Files)
}

// Disk describes the physical device backing a mount, when one exists.
type Disk struct {
	Name       string // kernel block device name, e.g. sda
	Rotational bool
	Removable  bool
	RAM        bool // backed by memory (zram, brd)
	Crypted    bool // dm-crypt target
}

// Type returns a short label for the storage type.
func (d *Disk) Type() string {
	switch {
	case d.RAM:
		return "RAM"
	case d.Crypted:
		return "crypt"
	case d.Removable:
		return "remov"
	case d.Rotational:
		return "HDD"
	default:
		return "SSD"
	}
}

// LustreInfo carries the striping attributes of a Lustre mount,
// filled by the lustre package.
type LustreInfo struct {
	FSName         string
	ComponentType  string // CLIENT, MDT or OST
	ComponentIndex uint32
	StripeCount    uint64
	StripeSize     uint64
	PoolName       string
	Version        string
	MirrorCount    uint32
}

// Mount is one mounted filesystem with everything we know about it.
type Mount struct {
	Info
	Stats       *Stats  // nil when statfs failed or was skipped
	Inodes      *Inodes // nil when the filesystem has no inode counts
	Label       string
	UUID        string
	PartUUID    string
	Disk        *Disk
	Unreachable bool // statfs failed, typically a dead network mount
	Lustre      *LustreInfo
}

// FSName returns the display name of the filesystem: the mount point
// for Lustre mounts, the filesystem type otherwise.
func (m *Mount) FSName() string {
	if m.FSType == "lustre" {
		return m.MountPoint
	}
	return m.FSType
}

// IsNormal reports whether the mount should appear in the default view
// (without --all): it must carry stats or be a dead mount worth showing,
// and be disk-backed, remote, zfs or lustre. Bind mounts and squashfs
// images are excluded.
func (m *Mount) IsNormal() bool {
	if m.FSType == "lustre" {
		return true
	}
	if m.Stats == nil && !m.Unreachable {
		return false
	}
	if m.Disk == nil && m.FSType != "zfs" && !m.Remote() {
		return false
	}
	if m.Bound {
		return false
	}
	return m.FSType != "squashfs"
}
