package ioutils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dat")
	dst := filepath.Join(dir, "dst.dat")
	require.NoError(t, os.WriteFile(src, []byte("original"), FileMode))
	require.NoError(t, os.WriteFile(dst, []byte("something much longer"), FileMode))

	require.NoError(t, CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	kept, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original", string(kept))
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(context.Background(), filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCopyFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, CopyFile(ctx, "a", "b"), context.Canceled)
}

func TestCreateTruncated(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		header   *string
		want     string
	}{
		{name: "new without header", want: ""},
		{name: "new with header", header: strPtr("id,value"), want: "id,value\n"},
		{name: "truncates existing", existing: "old data\n", want: ""},
		{name: "truncates and writes header", existing: "old data\n", header: strPtr("H"), want: "H\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.dat")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), FileMode))
			}

			require.NoError(t, CreateTruncated(path, tt.header))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestOpenAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")

	_, err := OpenAppend(path)
	require.Error(t, err, "append must not create the file")

	require.NoError(t, CreateTruncated(path, strPtr("H")))
	f, err := OpenAppend(path)
	require.NoError(t, err)
	_, err = f.WriteString("1,2\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "H\n1,2\n", string(got))
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "dir")

	require.NoError(t, EnsureDir(path))
	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExistsAndCanonicalize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.dat")

	assert.False(t, Exists(path))
	_, err := Canonicalize(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, nil, FileMode))
	assert.True(t, Exists(path))

	got, err := Canonicalize(path)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, filepath.IsAbs(got))
}

func strPtr(s string) *string { return &s }
