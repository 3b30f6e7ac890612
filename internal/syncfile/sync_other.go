//go:build !linux && !freebsd && !darwin && !windows

package syncfile

import "os"

func datasync(f *os.File) error {
	return f.Sync()
}
