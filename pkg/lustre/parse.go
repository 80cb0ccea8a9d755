package lustre

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hpctools/ldf/pkg/mount"
)

// Component types reported in LustreInfo.
const (
	ComponentClient = "CLIENT"
	ComponentMDT    = "MDT"
	ComponentOST    = "OST"
)

// Synthetic device majors distinguishing component kinds; Lustre
// mounts have no real device numbers.
const (
	devMajorMDT = 1
	devMajorOST = 2
)

const summaryPrefix = "filesystem_summary:"

// componentUUID matches names like "scratch-OST01a3_UUID".
var componentUUID = regexp.MustCompile(`^(.+)-(MDT|OST)([0-9a-fA-F]{4})_UUID$`)

// parseDF converts "lfs df" output into mounts. The output lists, per
// filesystem, one row per MDT and OST followed by a summary row:
//
//	UUID                 1K-blocks    Used   Available Use% Mounted on
//	scratch-MDT0000_UUID    125368   16500      100304  14% /mnt/scratch[MDT:0]
//	scratch-OST0000_UUID   1968528   97188     1766856   5% /mnt/scratch[OST:0]
//	scratch-OST0001_UUID : inactive device
//	filesystem_summary:    1968528   97188     1766856   5% /mnt/scratch
//
// Inactive components have no mount column; their pseudo mount point
// is derived from the summary row closing the block.
func parseDF(out []byte) ([]*mount.Mount, error) {
	var (
		mounts  []*mount.Mount
		pending []*mount.Mount
	)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "UUID"):
			continue
		case strings.HasPrefix(line, summaryPrefix):
			client, err := parseSummaryRow(line)
			if err != nil {
				return nil, err
			}
			if len(pending) > 0 {
				// the component rows carry the real filesystem name
				fsname := pending[0].Lustre.FSName
				client.Source = fsname + "@lustre"
				client.Label = "Lustre-" + fsname
				client.Lustre.FSName = fsname
			}
			for _, c := range pending {
				if c.MountPoint == "" {
					c.MountPoint = componentMountPoint(client.MountPoint, c.Lustre)
				}
			}
			mounts = append(mounts, pending...)
			mounts = append(mounts, client)
			pending = nil
		default:
			c, err := parseComponentRow(line)
			if err != nil {
				return nil, err
			}
			if c != nil {
				pending = append(pending, c)
			}
		}
	}
	// a block without summary row should not happen; keep the
	// components, with placeholder mount points where none was listed
	for _, c := range pending {
		if c.MountPoint == "" {
			c.MountPoint = componentMountPoint("", c.Lustre)
		}
	}
	mounts = append(mounts, pending...)
	return mounts, scanner.Err()
}

// parseComponentRow parses one MDT/OST row. Rows which are not
// component rows (e.g. MGS entries) are skipped with a nil result.
func parseComponentRow(line string) (*mount.Mount, error) {
	fields := strings.Fields(line)
	m := componentUUID.FindStringSubmatch(fields[0])
	if m == nil {
		return nil, nil
	}
	fsname, ctype := m[1], m[2]
	index, err := strconv.ParseUint(m[3], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("component index in %q: %w", line, err)
	}

	major := uint32(devMajorMDT)
	if ctype == ComponentOST {
		major = devMajorOST
	}
	cm := &mount.Mount{
		Info: mount.Info{
			Dev:    mount.DeviceID{Major: major, Minor: uint32(index)},
			Source: fields[0],
			FSType: "lustre",
			Root:   "/",
		},
		UUID:  fields[0],
		Label: fsname + "-" + ctype,
		Lustre: &mount.LustreInfo{
			FSName:         fsname,
			ComponentType:  ctype,
			ComponentIndex: uint32(index),
		},
	}

	if len(fields) >= 6 && fields[1] != ":" {
		stats, err := parseStatsFields(fields[1:5])
		if err != nil {
			return nil, fmt.Errorf("component row %q: %w", line, err)
		}
		cm.Stats = stats
		cm.MountPoint = fields[5]
	} else {
		// ": inactive device" and similar states
		cm.Unreachable = true
	}
	return cm, nil
}

func parseSummaryRow(line string) (*mount.Mount, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, fmt.Errorf("invalid summary row: %q", line)
	}
	stats, err := parseStatsFields(fields[1:5])
	if err != nil {
		return nil, fmt.Errorf("summary row %q: %w", line, err)
	}
	mntdir := fields[5]
	fsname := fsNameOf(mntdir)
	return &mount.Mount{
		Info: mount.Info{
			Source:     fsname + "@lustre",
			FSType:     "lustre",
			MountPoint: mntdir,
			Root:       "/",
		},
		Stats: stats,
		Label: "Lustre-" + fsname,
		Lustre: &mount.LustreInfo{
			FSName:        fsname,
			ComponentType: ComponentClient,
		},
	}, nil
}

// parseStatsFields parses the "1K-blocks Used Available Use%" columns.
func parseStatsFields(fields []string) (*mount.Stats, error) {
	total, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return nil, err
	}
	used, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, err
	}
	avail, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, err
	}
	if used > total {
		used = total
	}
	return &mount.Stats{
		BlockSize:   1024,
		Blocks:      total,
		BlocksFree:  total - used,
		BlocksAvail: avail,
	}, nil
}

func componentMountPoint(mntdir string, info *mount.LustreInfo) string {
	return fmt.Sprintf("%s[%s:%d]", mntdir, info.ComponentType, info.ComponentIndex)
}

// fsNameOf guesses the filesystem name from its mount directory; the
// component rows of the same block override it with the real name.
func fsNameOf(mntdir string) string {
	base := strings.TrimSuffix(mntdir, "/")
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if base == "" {
		base = "lustre"
	}
	return base
}

// mergeInodes folds "lfs df -i" output (Inodes IUsed IFree IUse%)
// into already parsed mounts, matched by mount point.
func mergeInodes(mounts []*mount.Mount, out []byte) error {
	byPoint := make(map[string]*mount.Mount, len(mounts))
	for _, m := range mounts {
		byPoint[m.MountPoint] = m
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "UUID") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 || fields[1] == ":" {
			continue
		}
		m, ok := byPoint[fields[5]]
		if !ok {
			continue
		}
		files, err1 := strconv.ParseUint(fields[1], 10, 64)
		free, err2 := strconv.ParseUint(fields[3], 10, 64)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("invalid inode row: %q", line)
		}
		if files > 0 {
			m.Inodes = &mount.Inodes{Files: files, Free: free, Avail: free}
		}
	}
	return scanner.Err()
}

// parseStripe extracts the default striping attributes from
// "lfs getstripe -d" output, a loose stream of key/value tokens.
func parseStripe(out []byte, info *mount.LustreInfo) {
	fields := strings.Fields(string(out))
	for i := 0; i+1 < len(fields); i++ {
		key := strings.TrimSuffix(fields[i], ":")
		switch key {
		case "stripe_count", "lmm_stripe_count":
			if v, err := strconv.ParseUint(fields[i+1], 10, 64); err == nil {
				info.StripeCount = v
			}
		case "stripe_size", "lmm_stripe_size":
			if v, err := strconv.ParseUint(fields[i+1], 10, 64); err == nil {
				info.StripeSize = v
			}
		case "pool", "lmm_pool":
			info.PoolName = fields[i+1]
		case "mirror_count", "lcme_mirror_count":
			if v, err := strconv.ParseUint(fields[i+1], 10, 32); err == nil {
				info.MirrorCount = uint32(v)
			}
		}
	}
}

// Less orders Lustre mounts for display: client summary first, then
// MDTs, then OSTs, each by name and index.
func Less(a, b *mount.Mount) bool {
	return rank(a) < rank(b) || (rank(a) == rank(b) && key(a) < key(b))
}

func rank(m *mount.Mount) int {
	if m.Lustre == nil {
		return 3
	}
	switch m.Lustre.ComponentType {
	case ComponentClient:
		return 0
	case ComponentMDT:
		return 1
	case ComponentOST:
		return 2
	}
	return 3
}

func key(m *mount.Mount) string {
	if m.Lustre != nil {
		return fmt.Sprintf("%s-%08d", m.Lustre.FSName, m.Lustre.ComponentIndex)
	}
	return m.Source
}
