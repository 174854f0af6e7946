package fileutil

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// renameFunc is swapped in tests to simulate EXDEV and permission failures.
var renameFunc = os.Rename

// ErrDestinationExists is returned when a move target is already present.
var ErrDestinationExists = errors.New("destination already exists")

// CrossDeviceError reports a rename that failed because source and destination
// live on different filesystems. Moves never fall back to copy + delete.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device move %q -> %q: source and destination must be on the same filesystem: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// MoveFile renames src to dst without overwriting an existing dst. The parent
// of dst must already exist. Callers serialize moves into a shared directory.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("move %q: %w: %s", src, ErrDestinationExists, dst)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

func isEXDEV(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	return errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV)
}
