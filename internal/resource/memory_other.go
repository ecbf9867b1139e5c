//go:build !linux

package resource

import "errors"

// SystemMemory is not available on this platform; configure the memory
// budget explicitly.
func SystemMemory() (int64, error) {
	return 0, errors.ErrUnsupported
}
