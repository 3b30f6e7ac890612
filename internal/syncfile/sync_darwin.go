//go:build darwin

package syncfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// datasync uses F_FULLFSYNC, since plain fsync on macOS stops at the drive cache.
func datasync(f *os.File) error {
	_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
	if err != nil {
		return unix.Fsync(int(f.Fd()))
	}
	return nil
}
