// Package cols defines the columns of the mount table: their names,
// aliases, titles, alignment, comparators and default sort orders.
package cols

import (
	"fmt"
	"strings"

	"github.com/hpctools/ldf/pkg/mount"
)

// Col identifies one column of the output.
type Col int

const (
	ID Col = iota
	Dev
	Filesystem
	Label
	Type
	Remote
	Disk
	Used
	Use
	UsePercent
	Free
	FreePercent
	Size
	InodesUsed
	InodesUse
	InodesUsePercent
	InodesFree
	InodesCount
	MountPoint
	FSName
	UUID
	PartUUID
	StripeCount
	StripeSize
	LustreVersion
	PoolName
	ComponentType
	ComponentIndex
	MirrorCount
)

// Align is a cell alignment in the table output.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Order is a sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

type colDef struct {
	name       string
	aliases    []string
	title      string // column title in bytes mode
	inodeTitle string // column title with --inodes
	desc       string
	isDefault  bool
	order      Order // default sort order
}

var defs = map[Col]colDef{
	ID:          {name: "id", title: "id", inodeTitle: "id", desc: "mount point id"},
	Dev:         {name: "dev", aliases: []string{"device", "device_id"}, title: "dev", inodeTitle: "dev", desc: "device id"},
	Filesystem:  {name: "fs", aliases: []string{"filesystem"}, title: "filesystem", inodeTitle: "filesystem", desc: "filesystem", isDefault: true},
	Label:       {name: "label", title: "label", inodeTitle: "label", desc: "volume label"},
	Type:        {name: "type", title: "type", inodeTitle: "type", desc: "filesystem type"},
	Remote:      {name: "remote", aliases: []string{"rem"}, title: "remote", inodeTitle: "remote", desc: "whether it's a remote filesystem", order: Desc},
	Disk:        {name: "disk", aliases: []string{"dsk"}, title: "disk", inodeTitle: "disk", desc: "storage type"},
	Used:        {name: "used", title: "bytes used", inodeTitle: "inodes used", desc: "bytes used (or inodes used with -i)", isDefault: true},
	Use:         {name: "use", title: "use %", inodeTitle: "use %", desc: "usage graphical view (bytes or inodes with -i)", isDefault: true, order: Desc},
	UsePercent:  {name: "use_percent", title: "bytes %", inodeTitle: "inodes %", desc: "percentage used (bytes or inodes with -i)"},
	Free:        {name: "free", title: "bytes free", inodeTitle: "inodes free", desc: "free bytes (or free inodes with -i)", isDefault: true},
	FreePercent: {name: "free_percent", title: "bytes free %", inodeTitle: "inodes free %", desc: "percentage free (bytes or inodes with -i)", order: Desc},
	Size:        {name: "size", title: "bytes total", inodeTitle: "inodes total", desc: "total size (bytes or inodes with -i)", isDefault: true, order: Desc},
	InodesUsed:  {name: "inodes_used", aliases: []string{"iused"}, title: "used inodes", inodeTitle: "used inodes", desc: "number of inodes used"},
	InodesUse:   {name: "inodes", aliases: []string{"ino", "inodes_use", "iuse"}, title: "inodes", inodeTitle: "inodes", desc: "graphical view of inodes usage"},
	InodesUsePercent: {
		name: "inodes_use_percent", aliases: []string{"iuse_percent"},
		title: "inodes%", inodeTitle: "inodes%", desc: "percentage of inodes used",
	},
	InodesFree:  {name: "inodes_free", aliases: []string{"ifree"}, title: "free inodes", inodeTitle: "free inodes", desc: "number of free inodes"},
	InodesCount: {name: "inodes_total", aliases: []string{"inodes_count", "itotal"}, title: "inodes total", inodeTitle: "inodes total", desc: "total count of inodes"},
	MountPoint:  {name: "mount", aliases: []string{"mount_point", "mp"}, title: "mount point", inodeTitle: "mount point", desc: "mount point", isDefault: true},
	FSName:      {name: "fsname", aliases: []string{"fs_name"}, title: "filesystem name", inodeTitle: "fsname", desc: "filesystem name"},
	UUID:        {name: "uuid", title: "UUID", inodeTitle: "UUID", desc: "filesystem UUID"},
	PartUUID:    {name: "partuuid", aliases: []string{"part_uuid"}, title: "PARTUUID", inodeTitle: "PARTUUID", desc: "partition UUID"},
	StripeCount: {name: "stripe_count", aliases: []string{"stripes"}, title: "stripe count", inodeTitle: "stripe count", desc: "number of OSTs file data is striped across", order: Desc},
	StripeSize:  {name: "stripe_size", title: "stripe size", inodeTitle: "stripe size", desc: "size of each stripe in bytes", order: Desc},
	LustreVersion: {
		name: "lustre_version", aliases: []string{"lus_ver"},
		title: "lustre version", inodeTitle: "lustre version", desc: "version of Lustre filesystem",
	},
	PoolName:      {name: "pool_name", aliases: []string{"pool"}, title: "pool name", inodeTitle: "pool name", desc: "OST pool name for workload isolation"},
	ComponentType: {name: "component_type", aliases: []string{"comp_type"}, title: "component type", inodeTitle: "component type", desc: "type of Lustre component (MDT/OST/CLIENT)"},
	ComponentIndex: {
		name: "component_index", aliases: []string{"comp_idx"},
		title: "component index", inodeTitle: "component index", desc: "index number of the component",
	},
	MirrorCount: {name: "mirror_count", aliases: []string{"mirrors"}, title: "mirror count", inodeTitle: "mirror count", desc: "number of file mirrors for data replication", order: Desc},
}

// All lists every column in display order.
var All = []Col{
	ID, Dev, Filesystem, Label, Type, Remote, Disk,
	Used, Use, UsePercent, Free, FreePercent, Size,
	InodesUsed, InodesUse, InodesUsePercent, InodesFree, InodesCount,
	MountPoint, FSName, UUID, PartUUID,
	StripeCount, StripeSize, LustreVersion, PoolName,
	ComponentType, ComponentIndex, MirrorCount,
}

// Defaults is the column set shown when none is requested.
func Defaults() []Col {
	var out []Col
	for _, c := range All {
		if defs[c].isDefault {
			out = append(out, c)
		}
	}
	return out
}

// LustreDefaults is the column set used for the Lustre-only view.
func LustreDefaults() []Col {
	return []Col{Filesystem, Used, Use, Free, Size, MountPoint}
}

// Name returns the canonical column name used in --cols and --sort.
func (c Col) Name() string { return defs[c].name }

// Aliases returns the accepted alternate names.
func (c Col) Aliases() []string { return defs[c].aliases }

// Title returns the column header, which changes for the shared
// byte/inode columns when inodes mode is active.
func (c Col) Title(inodesMode bool) string {
	if inodesMode {
		return defs[c].inodeTitle
	}
	return defs[c].title
}

// Description returns the help text shown by --list-cols.
func (c Col) Description() string { return defs[c].desc }

// IsDefault reports whether the column is part of the default set.
func (c Col) IsDefault() bool { return defs[c].isDefault }

// DefaultOrder returns the sort direction used when none is given.
func (c Col) DefaultOrder() Order { return defs[c].order }

func (c Col) String() string { return defs[c].name }

// HeaderAlign returns the alignment of the column title.
func (c Col) HeaderAlign() Align {
	switch c {
	case Label, MountPoint, FSName:
		return AlignLeft
	}
	return AlignCenter
}

// ContentAlign returns the alignment of the column cells.
func (c Col) ContentAlign() Align {
	switch c {
	case Filesystem, Label, MountPoint, FSName, UUID, PartUUID, PoolName:
		return AlignLeft
	}
	return AlignCenter
}

// ParseCol resolves a column name or alias.
func ParseCol(s string) (Col, error) {
	for _, c := range All {
		if defs[c].name == s {
			return c, nil
		}
		for _, a := range defs[c].aliases {
			if a == s {
				return c, nil
			}
		}
	}
	return 0, fmt.Errorf("%q can't be parsed as a column; use 'ldf --list-cols' to see all column names", s)
}

// cmpUint orders missing values (ok == false) before present ones,
// matching how numeric columns sort.
func cmpUint(a uint64, aok bool, b uint64, bok bool) int {
	switch {
	case aok && !bok:
		return 1
	case !aok && bok:
		return -1
	case !aok && !bok:
		return 0
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a float64, aok bool, b float64, bok bool) int {
	switch {
	case aok && !bok:
		return 1
	case !aok && bok:
		return -1
	case !aok && !bok:
		return 0
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpString orders missing values (empty strings) after present ones,
// matching how label and uuid sort.
func cmpString(a, b string) int {
	switch {
	case a != "" && b == "":
		return -1
	case a == "" && b != "":
		return 1
	}
	return strings.Compare(a, b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compare orders two mounts under this column, ascending.
func (c Col) Compare(a, b *mount.Mount) int {
	switch c {
	case ID:
		return a.Info.ID - b.Info.ID
	case Dev:
		return a.Dev.Compare(b.Dev)
	case Filesystem:
		return strings.Compare(a.Source, b.Source)
	case Label:
		return cmpString(a.Label, b.Label)
	case Type:
		return strings.Compare(a.FSType, b.FSType)
	case Remote:
		return boolToInt(a.Remote()) - boolToInt(b.Remote())
	case Disk:
		return cmpString(diskType(a), diskType(b))
	case Used:
		return cmpStats(a, b, func(s *mount.Stats) uint64 { return s.Used() })
	case Use, UsePercent:
		av, aok := statsShare(a)
		bv, bok := statsShare(b)
		return cmpFloat(av, aok, bv, bok)
	case Free:
		return cmpStats(a, b, func(s *mount.Stats) uint64 { return s.Available() })
	case FreePercent:
		av, aok := statsShare(a)
		bv, bok := statsShare(b)
		return cmpFloat(bv, bok, av, aok)
	case Size:
		return cmpStats(a, b, func(s *mount.Stats) uint64 { return s.Size() })
	case InodesUsed:
		return cmpInodes(a, b, func(i *mount.Inodes) uint64 { return i.Used() })
	case InodesUse, InodesUsePercent:
		av, aok := inodesShare(a)
		bv, bok := inodesShare(b)
		return cmpFloat(av, aok, bv, bok)
	case InodesFree:
		return cmpInodes(a, b, func(i *mount.Inodes) uint64 { return i.Avail })
	case InodesCount:
		return cmpInodes(a, b, func(i *mount.Inodes) uint64 { return i.Files })
	case MountPoint:
		return strings.Compare(a.MountPoint, b.MountPoint)
	case FSName:
		return strings.Compare(a.FSName(), b.FSName())
	case UUID:
		return cmpString(a.UUID, b.UUID)
	case PartUUID:
		return cmpString(a.PartUUID, b.PartUUID)
	case StripeCount:
		return cmpLustreUint(a, b, func(l *mount.LustreInfo) uint64 { return l.StripeCount })
	case StripeSize:
		return cmpLustreUint(a, b, func(l *mount.LustreInfo) uint64 { return l.StripeSize })
	case LustreVersion:
		return strings.Compare(lustreString(a, versionOf), lustreString(b, versionOf))
	case PoolName:
		return strings.Compare(lustreString(a, poolOf), lustreString(b, poolOf))
	case ComponentType:
		return strings.Compare(lustreString(a, typeOf), lustreString(b, typeOf))
	case ComponentIndex:
		return cmpLustreUint(a, b, func(l *mount.LustreInfo) uint64 { return uint64(l.ComponentIndex) })
	case MirrorCount:
		return cmpLustreUint(a, b, func(l *mount.LustreInfo) uint64 { return uint64(l.MirrorCount) })
	}
	return 0
}

func diskType(m *mount.Mount) string {
	if m.Disk == nil {
		return ""
	}
	return strings.ToLower(m.Disk.Type())
}

func cmpStats(a, b *mount.Mount, v func(*mount.Stats) uint64) int {
	var av, bv uint64
	if a.Stats != nil {
		av = v(a.Stats)
	}
	if b.Stats != nil {
		bv = v(b.Stats)
	}
	return cmpUint(av, a.Stats != nil, bv, b.Stats != nil)
}

func cmpInodes(a, b *mount.Mount, v func(*mount.Inodes) uint64) int {
	var av, bv uint64
	if a.Inodes != nil {
		av = v(a.Inodes)
	}
	if b.Inodes != nil {
		bv = v(b.Inodes)
	}
	return cmpUint(av, a.Inodes != nil, bv, b.Inodes != nil)
}

func cmpLustreUint(a, b *mount.Mount, v func(*mount.LustreInfo) uint64) int {
	var av, bv uint64
	if a.Lustre != nil {
		av = v(a.Lustre)
	}
	if b.Lustre != nil {
		bv = v(b.Lustre)
	}
	return cmpUint(av, true, bv, true)
}

func statsShare(m *mount.Mount) (float64, bool) {
	if m.Stats == nil {
		return 0, false
	}
	return m.Stats.UseShare(), true
}

func inodesShare(m *mount.Mount) (float64, bool) {
	if m.Inodes == nil {
		return 0, false
	}
	return m.Inodes.UseShare(), true
}

func lustreString(m *mount.Mount, v func(*mount.LustreInfo) string) string {
	if m.Lustre == nil {
		return ""
	}
	return v(m.Lustre)
}

func versionOf(l *mount.LustreInfo) string { return l.Version }
func poolOf(l *mount.LustreInfo) string    { return l.PoolName }
func typeOf(l *mount.LustreInfo) string    { return l.ComponentType }
