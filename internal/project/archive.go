package project

import (
	"context"
	"path/filepath"

	"github.com/handiism/outfiles/internal/errors"
	ioutils "github.com/handiism/outfiles/internal/io"
)

// ArchiveDir is the directory under the project root that receives copies
// of files about to be overwritten.
const ArchiveDir = "archive"

// ArchivePath returns where path is copied by the Archive policy:
// <root>/archive/<immediate parent directory name>/<file name>.
//
// Only the immediate parent name is kept, so a/dir/x.dat and b/dir/x.dat
// share one archive slot.
func ArchivePath(root, path string) (string, error) {
	fileName := filepath.Base(path)
	if !validComponent(fileName) {
		return "", errors.New(errors.KindArchivePath, "archive", path, errors.ErrNoFileName)
	}

	parent := filepath.Base(filepath.Dir(path))
	if !validComponent(parent) {
		return "", errors.New(errors.KindArchivePath, "archive", path, errors.ErrNoParent)
	}

	return filepath.Join(root, ArchiveDir, parent, fileName), nil
}

func validComponent(name string) bool {
	return name != "" && name != "." && name != ".." && name != string(filepath.Separator)
}

// Archiver copies colliding files aside before they are truncated.
type Archiver struct {
	root string
}

// NewArchiver returns an Archiver writing under root/archive.
func NewArchiver(root string) *Archiver {
	return &Archiver{root: root}
}

// Archive copies path into the archive tree and returns the copy's path.
// The source file is left in place.
func (a *Archiver) Archive(ctx context.Context, path string) (string, error) {
	dst, err := ArchivePath(a.root, path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(dst)
	if err := ioutils.EnsureDir(dir); err != nil {
		return "", errors.New(errors.KindDirectoryCreate, "archive", dir, err)
	}

	if err := ioutils.CopyFile(ctx, path, dst); err != nil {
		return "", errors.New(errors.KindArchiveCopy, "archive", path, err)
	}
	return dst, nil
}
