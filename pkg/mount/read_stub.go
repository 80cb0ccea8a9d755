//go:build !linux

package mount

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// readMountTable builds mount identities from the partition list on
// platforms without /proc/self/mountinfo. Mount ids and device
// numbers are not available there.
func readMountTable() ([]Info, error) {
	parts, err := disk.PartitionsWithContext(context.Background(), true)
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}
	infos := make([]Info, 0, len(parts))
	for _, p := range parts {
		infos = append(infos, Info{
			Root:       "/",
			MountPoint: p.Mountpoint,
			Source:     p.Device,
			FSType:     p.Fstype,
		})
	}
	return infos, nil
}

// DeviceOf is unsupported without mountinfo device numbers.
func DeviceOf(path string) (DeviceID, error) {
	return DeviceID{}, fmt.Errorf("device lookup for %s not supported on this platform", path)
}

// annotateDevices is a no-op without sysfs.
func annotateDevices([]*Mount) {}
