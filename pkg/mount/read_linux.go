package mount

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const mountInfoPath = "/proc/self/mountinfo"

// readMountTable reads the kernel mount table of the current process.
func readMountTable() ([]Info, error) {
	f, err := os.Open(mountInfoPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", mountInfoPath, err)
	}
	defer f.Close()
	return parseMountInfo(f)
}

// DeviceOf returns the id of the device holding path.
func DeviceOf(path string) (DeviceID, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return DeviceID{}, fmt.Errorf("stat %s: %w", path, err)
	}
	dev := uint64(st.Dev)
	return DeviceID{
		Major: unix.Major(dev),
		Minor: unix.Minor(dev),
	}, nil
}
