package mount

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	diskByLabel    = "/dev/disk/by-label"
	diskByUUID     = "/dev/disk/by-uuid"
	diskByPartUUID = "/dev/disk/by-partuuid"
	sysClassBlock  = "/sys/class/block"
)

// annotateDevices resolves volume labels, UUIDs and the backing disk
// of every device-backed mount. Everything here is best effort: a
// missing sysfs entry just leaves the field empty.
func annotateDevices(mounts []*Mount) {
	labels := readSymlinkTable(diskByLabel)
	uuids := readSymlinkTable(diskByUUID)
	partUUIDs := readSymlinkTable(diskByPartUUID)

	for _, m := range mounts {
		dev := resolveDevice(m.Source)
		if dev == "" {
			continue
		}
		m.Label = labels[dev]
		m.UUID = uuids[dev]
		m.PartUUID = partUUIDs[dev]
		m.Disk = classifyDisk(dev)
	}
}

// readSymlinkTable maps resolved device paths to the names of the
// symlinks pointing at them, e.g. /dev/sda1 -> "boot" for
// /dev/disk/by-label/boot. Link names carry \xNN escapes for
// spaces and special characters.
func readSymlinkTable(dir string) map[string]string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	table := make(map[string]string, len(entries))
	for _, e := range entries {
		target, err := filepath.EvalSymlinks(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		table[target] = unescapeHex(e.Name())
	}
	return table
}

// resolveDevice follows symlinks (/dev/mapper/..., /dev/disk/by-...)
// to the canonical /dev node. Returns "" for virtual sources.
func resolveDevice(source string) string {
	if !strings.HasPrefix(source, "/dev/") {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(source)
	if err != nil {
		return ""
	}
	return resolved
}

// classifyDisk inspects sysfs to find the whole disk behind a device
// node and its rotational/removable attributes.
func classifyDisk(dev string) *Disk {
	name := filepath.Base(dev)
	sysPath := filepath.Join(sysClassBlock, name)

	// a partition's sysfs symlink resolves under its parent disk
	if _, err := os.Stat(filepath.Join(sysPath, "partition")); err == nil {
		if resolved, err := filepath.EvalSymlinks(sysPath); err == nil {
			name = filepath.Base(filepath.Dir(resolved))
			sysPath = filepath.Join(sysClassBlock, name)
		}
	}
	if _, err := os.Stat(sysPath); err != nil {
		return nil
	}

	d := &Disk{Name: name}
	d.Rotational = readSysFlag(filepath.Join(sysPath, "queue", "rotational"))
	d.Removable = readSysFlag(filepath.Join(sysPath, "removable"))
	d.RAM = strings.HasPrefix(name, "zram") || strings.HasPrefix(name, "ram")
	if uuid, err := os.ReadFile(filepath.Join(sysPath, "dm", "uuid")); err == nil {
		d.Crypted = strings.HasPrefix(string(uuid), "CRYPT")
	}
	return d
}

func readSysFlag(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	return err == nil && v == 1
}

// unescapeHex decodes the \xNN escapes udev uses in by-label names.
func unescapeHex(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
