package mount

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parseMountInfo parses the /proc/self/mountinfo format:
//
//	36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 - ext3 /dev/root rw
//
// The optional fields between the mount options and the separator are
// skipped. Octal escapes in paths (\040 for space) are decoded.
func parseMountInfo(r io.Reader) ([]Info, error) {
	var infos []Info
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		info, err := parseMountInfoLine(line)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}
	markBoundMounts(infos)
	return infos, nil
}

func parseMountInfoLine(line string) (Info, error) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return Info{}, fmt.Errorf("invalid mountinfo line: %q", line)
	}
	sep := -1
	for i := 6; i < len(fields); i++ {
		if fields[i] == "-" {
			sep = i
			break
		}
	}
	if sep < 0 || sep+2 >= len(fields) {
		return Info{}, fmt.Errorf("invalid mountinfo line: %q", line)
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Info{}, fmt.Errorf("invalid mount id in %q: %w", line, err)
	}
	parent, err := strconv.Atoi(fields[1])
	if err != nil {
		return Info{}, fmt.Errorf("invalid parent id in %q: %w", line, err)
	}
	dev, err := parseDeviceID(fields[2])
	if err != nil {
		return Info{}, fmt.Errorf("invalid device id in %q: %w", line, err)
	}

	return Info{
		ID:         id,
		ParentID:   parent,
		Dev:        dev,
		Root:       unescapeOctal(fields[3]),
		MountPoint: unescapeOctal(fields[4]),
		FSType:     fields[sep+1],
		Source:     unescapeOctal(fields[sep+2]),
	}, nil
}

func parseDeviceID(s string) (DeviceID, error) {
	major, minor, ok := strings.Cut(s, ":")
	if !ok {
		return DeviceID{}, fmt.Errorf("expected maj:min, got %q", s)
	}
	maj, err := strconv.ParseUint(major, 10, 32)
	if err != nil {
		return DeviceID{}, err
	}
	min, err := strconv.ParseUint(minor, 10, 32)
	if err != nil {
		return DeviceID{}, err
	}
	return DeviceID{Major: uint32(maj), Minor: uint32(min)}, nil
}

// markBoundMounts flags mounts which expose a device already mounted
// earlier in the table (bind mounts, btrfs subvolume remounts).
func markBoundMounts(infos []Info) {
	seen := make(map[DeviceID]bool, len(infos))
	for i := range infos {
		if seen[infos[i].Dev] {
			infos[i].Bound = true
			continue
		}
		seen[infos[i].Dev] = true
	}
}

// unescapeOctal decodes \ooo escapes the kernel uses for whitespace
// in mountinfo paths.
func unescapeOctal(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
