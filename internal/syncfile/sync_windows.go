//go:build windows

package syncfile

import (
	"os"

	"golang.org/x/sys/windows"
)

func datasync(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
