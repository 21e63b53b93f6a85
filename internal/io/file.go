// Package ioutils provides the file system primitives behind outfiles.
//
// This package contains functions for:
//   - Directory creation
//   - File copying
//   - Truncating creation with an optional header line
//   - Existence checks and best-effort path canonicalization
//
// Functions return plain errors from the os package; callers classify them.
package ioutils

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

const (
	// DirMode is used for every directory created by outfiles.
	DirMode os.FileMode = 0755
	// FileMode is used for every file created by outfiles.
	FileMode os.FileMode = 0644
)

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The source file is never modified.
//
// Parameters:
//   - ctx: Context for cancellation (checked before the copy starts)
//   - src: Source file path (must exist)
//   - dst: Destination file path (will be created/overwritten)
//
// Example:
//
//	err := CopyFile(ctx, "/proj/dir/out.dat", "/proj/archive/dir/out.dat")
func CopyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FileMode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// CreateTruncated creates path, truncating any existing content, and writes
// header followed by a newline when header is non-nil.
//
// A failed header write is returned as *HeaderError.
func CreateTruncated(path string, header *string) error {
	f, err := OpenTruncated(path)
	if err != nil {
		return err
	}
	if header != nil {
		if _, err := io.WriteString(f, *header+"\n"); err != nil {
			f.Close()
			return &HeaderError{Path: path, Err: err}
		}
	}
	return f.Close()
}

// OpenTruncated opens path for writing, creating it or truncating it.
func OpenTruncated(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FileMode)
}

// OpenAppend opens an existing file for appending. It does not create the
// file.
func OpenAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_WRONLY, FileMode)
}

// HeaderError reports a failed header write after a successful open.
type HeaderError struct {
	Path string
	Err  error
}

func (e *HeaderError) Error() string { return "write header " + e.Path + ": " + e.Err.Error() }

func (e *HeaderError) Unwrap() error { return e.Err }

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/proj/archive/dir")
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirMode)
}

// Exists reports whether anything exists at path. Stat errors other than
// "not exist" count as existing.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// Canonicalize returns the absolute, symlink-free form of path. It fails
// when path does not exist.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
