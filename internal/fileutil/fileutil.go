// Package fileutil provides the copy, move, and hashing primitives the
// materializer builds on.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// HashFile returns the hex SHA256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// CopyFileIfChanged copies src to dst unless dst already holds identical
// content. Reports whether a copy happened.
func CopyFileIfChanged(src, dst string) (bool, error) {
	srcHash, err := HashFile(src)
	if err != nil {
		return false, fmt.Errorf("hash source: %w", err)
	}
	dstHash, err := HashFile(dst)
	switch {
	case err == nil:
		if srcHash == dstHash {
			return false, nil
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return false, fmt.Errorf("hash destination: %w", err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

// MoveFileIfAbsent moves src into place at dst. When dst already exists
// the source is treated as a duplicate and removed instead. Reports
// whether the destination was newly populated.
func MoveFileIfAbsent(src, dst string) (bool, error) {
	if _, err := os.Stat(dst); err == nil {
		if err := os.Remove(src); err != nil {
			return false, fmt.Errorf("remove duplicate source: %w", err)
		}
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.Rename(src, dst); err == nil {
		return true, nil
	}
	// Rename fails across filesystems; fall back to copy and delete.
	if err := CopyFileVerified(src, dst); err != nil {
		return false, err
	}
	if err := os.Remove(src); err != nil {
		return false, fmt.Errorf("remove moved source: %w", err)
	}
	return true, nil
}

// TrackingKey identifies a source file state for the processed-file
// ledger. The modification time is part of the key so edits reprocess.
func TrackingKey(path string, modTime time.Time) string {
	return fmt.Sprintf("%s|%d", path, modTime.UnixNano())
}

// TrackingKeyFor stats path and builds its tracking key.
func TrackingKeyFor(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return TrackingKey(path, info.ModTime()), nil
}
