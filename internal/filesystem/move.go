// Package filesystem provides file relocation with a copy fallback for
// cross-device moves.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"video-library/internal/logging"
)

// MoveFile renames oldPath to newPath. When the destination sits on a
// different filesystem (rename returns EXDEV), it falls back to
// copy-then-remove. On any failure the destination is cleaned up so a
// half-written copy is never left behind.
func MoveFile(oldPath, newPath string) error {
	err := os.Rename(oldPath, newPath)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	logging.Debug("Cross-device move %s -> %s, copying", oldPath, newPath)

	if err := copyFile(oldPath, newPath); err != nil {
		if rmErr := os.Remove(newPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("Failed to clean up partial copy %s: %v", newPath, rmErr)
		}
		return err
	}

	if err := os.Remove(oldPath); err != nil {
		return fmt.Errorf("copied but failed to remove source %s: %w", oldPath, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
