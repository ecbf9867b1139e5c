//go:build linux

package resource

import "golang.org/x/sys/unix"

// SystemMemory returns the total physical memory of the host in bytes.
func SystemMemory() (int64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return int64(info.Totalram) * int64(info.Unit), nil
}
