package render

import (
	"fmt"
	"strconv"

	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/mount"
)

// cellText formats the plain value of a column for a mount, as used
// by the CSV output and as the base text of the table cells. The use
// columns render their percentage; the table adds the bar on top.
func (o *Options) cellText(m *mount.Mount, c cols.Col) string {
	switch c {
	case cols.ID:
		return strconv.Itoa(m.Info.ID)
	case cols.Dev:
		return m.Dev.String()
	case cols.Filesystem:
		return m.Source
	case cols.Label:
		return m.Label
	case cols.Type:
		return m.FSType
	case cols.Remote:
		if m.Remote() {
			return "yes"
		}
		return "no"
	case cols.Disk:
		if m.Disk == nil {
			return ""
		}
		return m.Disk.Type()
	case cols.Used:
		if o.InodesMode {
			return inodeCount(m, func(i *mount.Inodes) uint64 { return i.Used() })
		}
		if m.Stats == nil {
			return ""
		}
		return o.Units.Format(m.Stats.Used())
	case cols.Use, cols.UsePercent:
		if o.InodesMode {
			return inodePercent(m)
		}
		if m.Stats == nil {
			return ""
		}
		return fmt.Sprintf("%.0f%%", 100*m.Stats.UseShare())
	case cols.Free:
		if o.InodesMode {
			return inodeCount(m, func(i *mount.Inodes) uint64 { return i.Avail })
		}
		if m.Stats == nil {
			return ""
		}
		return o.Units.Format(m.Stats.Available())
	case cols.FreePercent:
		if o.InodesMode {
			if m.Inodes == nil {
				return ""
			}
			return fmt.Sprintf("%.0f%%", 100*(1-m.Inodes.UseShare()))
		}
		if m.Stats == nil {
			return ""
		}
		return fmt.Sprintf("%.0f%%", 100*(1-m.Stats.UseShare()))
	case cols.Size:
		if o.InodesMode {
			return inodeCount(m, func(i *mount.Inodes) uint64 { return i.Files })
		}
		if m.Stats == nil {
			return ""
		}
		return o.Units.Format(m.Stats.Size())
	case cols.InodesUsed:
		return inodeCount(m, func(i *mount.Inodes) uint64 { return i.Used() })
	case cols.InodesUse, cols.InodesUsePercent:
		return inodePercent(m)
	case cols.InodesFree:
		return inodeCount(m, func(i *mount.Inodes) uint64 { return i.Avail })
	case cols.InodesCount:
		return inodeCount(m, func(i *mount.Inodes) uint64 { return i.Files })
	case cols.MountPoint:
		return m.MountPoint
	case cols.FSName:
		return m.FSName()
	case cols.UUID:
		return m.UUID
	case cols.PartUUID:
		return m.PartUUID
	case cols.StripeCount:
		if m.Lustre == nil || m.Lustre.StripeCount == 0 {
			return ""
		}
		return strconv.FormatUint(m.Lustre.StripeCount, 10)
	case cols.StripeSize:
		if m.Lustre == nil || m.Lustre.StripeSize == 0 {
			return ""
		}
		return strconv.FormatUint(m.Lustre.StripeSize, 10)
	case cols.LustreVersion:
		if m.Lustre == nil {
			return ""
		}
		return m.Lustre.Version
	case cols.PoolName:
		if m.Lustre == nil {
			return ""
		}
		return m.Lustre.PoolName
	case cols.ComponentType:
		if m.Lustre == nil {
			return ""
		}
		return m.Lustre.ComponentType
	case cols.ComponentIndex:
		if m.Lustre == nil {
			return ""
		}
		return strconv.FormatUint(uint64(m.Lustre.ComponentIndex), 10)
	case cols.MirrorCount:
		if m.Lustre == nil || m.Lustre.MirrorCount == 0 {
			return ""
		}
		return strconv.FormatUint(uint64(m.Lustre.MirrorCount), 10)
	}
	return ""
}

func inodeCount(m *mount.Mount, v func(*mount.Inodes) uint64) string {
	if m.Inodes == nil {
		return ""
	}
	return strconv.FormatUint(v(m.Inodes), 10)
}

func inodePercent(m *mount.Mount) string {
	if m.Inodes == nil {
		return ""
	}
	return fmt.Sprintf("%.0f%%", 100*m.Inodes.UseShare())
}

// useShare returns the fraction shown in the use column under the
// current mode.
func (o *Options) useShare(m *mount.Mount) (float64, bool) {
	if o.InodesMode {
		if m.Inodes == nil {
			return 0, false
		}
		return m.Inodes.UseShare(), true
	}
	if m.Stats == nil {
		return 0, false
	}
	return m.Stats.UseShare(), true
}

// isLustreSummary recognizes the aggregated client row of a Lustre
// filesystem.
func isLustreSummary(m *mount.Mount) bool {
	return m.Lustre != nil && m.Lustre.ComponentType == "CLIENT"
}
