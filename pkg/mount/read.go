package mount

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
)

// Options control how the mount table is read.
type Options struct {
	// RemoteStats enables statfs calls on network filesystems. Disabling
	// it avoids hanging on dead NFS mounts.
	RemoteStats bool
}

// DefaultOptions queries everything, including remote mounts.
func DefaultOptions() Options {
	return Options{RemoteStats: true}
}

// Read returns all mounted filesystems with their statistics and
// device metadata. A mount whose statfs fails is kept and flagged
// Unreachable; only a missing mount table is a hard error.
func Read(ctx context.Context, opts Options) ([]*Mount, error) {
	infos, err := readMountTable()
	if err != nil {
		return nil, err
	}

	mounts := make([]*Mount, 0, len(infos))
	for _, info := range infos {
		m := &Mount{Info: info}
		if opts.RemoteStats || !m.Remote() {
			readUsage(ctx, m)
		}
		mounts = append(mounts, m)
	}
	annotateDevices(mounts)
	return mounts, nil
}

// readUsage fills the space and inode statistics of a single mount.
func readUsage(ctx context.Context, m *Mount) {
	usage, err := disk.UsageWithContext(ctx, m.MountPoint)
	if err != nil {
		log.Debug().Err(err).Str("mount", m.MountPoint).Msg("statfs failed")
		m.Unreachable = true
		return
	}
	// gopsutil reports bytes; keep a unit block size so the
	// Stats arithmetic stays exact.
	m.Stats = &Stats{
		BlockSize:   1,
		Blocks:      usage.Total,
		BlocksFree:  usage.Total - usage.Used,
		BlocksAvail: usage.Free,
	}
	if usage.InodesTotal > 0 {
		m.Inodes = &Inodes{
			Files: usage.InodesTotal,
			Free:  usage.InodesFree,
			Avail: usage.InodesFree,
		}
	}
}
