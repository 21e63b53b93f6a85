// Package ioutils provides file system utilities.
//
// # File Operations
//
//	// Copy a file aside before it gets truncated
//	err := ioutils.CopyFile(ctx, "/proj/dir/out.dat", "/proj/archive/dir/out.dat")
//
//	// Create or truncate a file, writing a header line
//	header := "id,value"
//	err := ioutils.CreateTruncated("/proj/dir/out.dat", &header)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/proj/archive/dir")
//
// # Paths
//
// Canonicalize resolves a path to its absolute, symlink-free form. It only
// succeeds for paths that exist, so callers keep the raw path as a fallback:
//
//	p, err := ioutils.Canonicalize(raw)
//	if err != nil {
//	    p = raw
//	}
package ioutils
