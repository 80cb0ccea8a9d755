package render

import (
	"encoding/json"
	"io"

	"github.com/hpctools/ldf/pkg/mount"
)

// jsonMount is the serialized form of one mount. Sizes carry both the
// raw byte count and the string formatted in the selected units.
type jsonMount struct {
	ID          int         `json:"id"`
	Dev         string      `json:"dev"`
	Filesystem  string      `json:"filesystem"`
	Label       string      `json:"label,omitempty"`
	Type        string      `json:"type"`
	Remote      bool        `json:"remote"`
	Disk        string      `json:"disk,omitempty"`
	MountPoint  string      `json:"mount_point"`
	UUID        string      `json:"uuid,omitempty"`
	PartUUID    string      `json:"part_uuid,omitempty"`
	Stats       *jsonStats  `json:"stats,omitempty"`
	Inodes      *jsonInodes `json:"inodes,omitempty"`
	Lustre      *jsonLustre `json:"lustre,omitempty"`
	Unreachable bool        `json:"unreachable,omitempty"`
}

type jsonStats struct {
	Size          uint64  `json:"size"`
	SizeText      string  `json:"size_text"`
	Used          uint64  `json:"used"`
	UsedText      string  `json:"used_text"`
	Available     uint64  `json:"available"`
	AvailableText string  `json:"available_text"`
	UsePercent    float64 `json:"use_percent"`
}

type jsonInodes struct {
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	UsePercent float64 `json:"use_percent"`
}

type jsonLustre struct {
	FSName         string `json:"fsname"`
	ComponentType  string `json:"component_type"`
	ComponentIndex uint32 `json:"component_index"`
	StripeCount    uint64 `json:"stripe_count,omitempty"`
	StripeSize     uint64 `json:"stripe_size,omitempty"`
	PoolName       string `json:"pool_name,omitempty"`
	Version        string `json:"version,omitempty"`
	MirrorCount    uint32 `json:"mirror_count,omitempty"`
}

type jsonPrinter struct {
	opts Options
}

func (p *jsonPrinter) Print(w io.Writer, mounts []*mount.Mount) error {
	out := make([]jsonMount, 0, len(mounts))
	for _, m := range mounts {
		out = append(out, p.convert(m))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (p *jsonPrinter) convert(m *mount.Mount) jsonMount {
	jm := jsonMount{
		ID:          m.Info.ID,
		Dev:         m.Dev.String(),
		Filesystem:  m.Source,
		Label:       m.Label,
		Type:        m.FSType,
		Remote:      m.Remote(),
		MountPoint:  m.MountPoint,
		UUID:        m.UUID,
		PartUUID:    m.PartUUID,
		Unreachable: m.Unreachable,
	}
	if m.Disk != nil {
		jm.Disk = m.Disk.Type()
	}
	if m.Stats != nil {
		jm.Stats = &jsonStats{
			Size:          m.Stats.Size(),
			SizeText:      p.opts.Units.Format(m.Stats.Size()),
			Used:          m.Stats.Used(),
			UsedText:      p.opts.Units.Format(m.Stats.Used()),
			Available:     m.Stats.Available(),
			AvailableText: p.opts.Units.Format(m.Stats.Available()),
			UsePercent:    100 * m.Stats.UseShare(),
		}
	}
	if m.Inodes != nil {
		jm.Inodes = &jsonInodes{
			Total:      m.Inodes.Files,
			Used:       m.Inodes.Used(),
			Free:       m.Inodes.Avail,
			UsePercent: 100 * m.Inodes.UseShare(),
		}
	}
	if m.Lustre != nil {
		jm.Lustre = &jsonLustre{
			FSName:         m.Lustre.FSName,
			ComponentType:  m.Lustre.ComponentType,
			ComponentIndex: m.Lustre.ComponentIndex,
			StripeCount:    m.Lustre.StripeCount,
			StripeSize:     m.Lustre.StripeSize,
			PoolName:       m.Lustre.PoolName,
			Version:        m.Lustre.Version,
			MirrorCount:    m.Lustre.MirrorCount,
		}
	}
	return jm
}
