package output

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/handiism/outfiles/internal/errors"
	ioutils "github.com/handiism/outfiles/internal/io"
)

// State is the lifecycle stage of a File.
type State int

const (
	// StateBuilder accepts identity setters; no path is available yet.
	StateBuilder State = iota
	// StateResolved has a computed path but nothing created on disk.
	StateResolved
	// StateWritable has its backing file(s) created and accepts appends.
	StateWritable
	// StateReadOnly was left untouched by a collision policy.
	StateReadOnly
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateBuilder:
		return "builder"
	case StateResolved:
		return "resolved"
	case StateWritable:
		return "writable"
	case StateReadOnly:
		return "read-only"
	default:
		return "unknown"
	}
}

// Series describes a family of Count sibling files. Index is the member
// currently materialized into the descriptor's path.
type Series struct {
	Count uint
	Index uint
}

// File is an output file descriptor.
//
// The zero value is an empty descriptor in StateBuilder and is ready to use.
// File is not safe for concurrent use.
type File struct {
	header      *string
	projectPath *string
	outputPath  *string
	name        *string
	extension   *string
	series      *Series

	// path is meaningful whenever state != StateBuilder.
	path  string
	state State

	logger *slog.Logger
}

// New returns an empty descriptor.
func New() *File {
	return &File{}
}

// SetLogger sets the logger used for best-effort failures. Nil restores
// slog.Default().
func (f *File) SetLogger(logger *slog.Logger) *File {
	f.logger = logger
	return f
}

func (f *File) log() *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return slog.Default()
}

// settable reports whether a builder setter may store into field.
func settable[T any](f *File, field *T) bool {
	return f.state == StateBuilder && field == nil
}

// SetHeader sets the single line written right after the file is created.
func (f *File) SetHeader(header string) *File {
	if settable(f, f.header) {
		f.header = &header
	}
	return f
}

// SetProjectPath sets the project root the output path is relative to.
func (f *File) SetProjectPath(projectPath string) *File {
	if settable(f, f.projectPath) {
		f.projectPath = &projectPath
	}
	return f
}

// SetOutputPath sets the output directory relative to the project path.
func (f *File) SetOutputPath(outputPath string) *File {
	if settable(f, f.outputPath) {
		f.outputPath = &outputPath
	}
	return f
}

// SetFileName sets the base name, without extension or series suffix.
func (f *File) SetFileName(name string) *File {
	if settable(f, f.name) {
		f.name = &name
	}
	return f
}

// SetExtension sets the extension, without the leading dot.
func (f *File) SetExtension(extension string) *File {
	if settable(f, f.extension) {
		f.extension = &extension
	}
	return f
}

// SetSeries makes the descriptor a series of count files, starting at
// index 0.
func (f *File) SetSeries(count uint) *File {
	if settable(f, f.series) {
		f.series = &Series{Count: count}
	}
	return f
}

// Build resolves the path when every identity field is set and returns the
// descriptor. An incomplete descriptor stays in StateBuilder.
func (f *File) Build() *File {
	f.Resolve()
	return f
}

// Resolve recomputes the path from the identity fields. It returns false,
// leaving the descriptor unchanged, when the project path, output path,
// name or extension is missing.
//
// The path is canonicalized when it exists; otherwise the raw joined path is
// kept, since files that are not created yet cannot be canonicalized.
func (f *File) Resolve() (string, bool) {
	raw, ok := f.rawPath(f.index())
	if !ok {
		return "", false
	}

	f.path = canonicalOrRaw(raw)
	if f.state == StateBuilder {
		f.state = StateResolved
	}
	return f.path, true
}

func (f *File) complete() bool {
	return f.projectPath != nil && f.outputPath != nil && f.name != nil && f.extension != nil
}

func (f *File) index() uint {
	if f.series == nil {
		return 0
	}
	return f.series.Index
}

// rawPath joins project/output/name[_index].extension for the given index.
func (f *File) rawPath(index uint) (string, bool) {
	if !f.complete() {
		return "", false
	}

	base := *f.name
	if f.series != nil {
		base = fmt.Sprintf("%s_%d", base, index)
	}
	if *f.extension != "" {
		base += "." + *f.extension
	}
	return filepath.Join(*f.projectPath, *f.outputPath, base), true
}

func canonicalOrRaw(raw string) string {
	if p, err := ioutils.Canonicalize(raw); err == nil {
		return p
	}
	return raw
}

// Identity mutators

// change applies a mutation and re-resolves. A writable or read-only
// descriptor whose path moved drops back to StateResolved unless keepState
// is set.
func (f *File) change(op string, keepState bool, apply func()) error {
	if f.state == StateBuilder {
		return errors.New(errors.KindNotInitialized, op, "", errors.ErrNotInitialized)
	}

	old := f.path
	apply()
	f.Resolve()

	if f.path != old && !keepState && (f.state == StateWritable || f.state == StateReadOnly) {
		f.log().Debug("output path changed, descriptor needs initialization", "from", old, "to", f.path)
		f.state = StateResolved
	}
	return nil
}

// ChangeProjectPath replaces the project path of a resolved descriptor.
func (f *File) ChangeProjectPath(projectPath string) error {
	return f.change("change project path", false, func() { f.projectPath = &projectPath })
}

// ChangeOutputPath replaces the output path of a resolved descriptor.
func (f *File) ChangeOutputPath(outputPath string) error {
	return f.change("change output path", false, func() { f.outputPath = &outputPath })
}

// ChangeFileName replaces the base name of a resolved descriptor.
func (f *File) ChangeFileName(name string) error {
	return f.change("change file name", false, func() { f.name = &name })
}

// ChangeExtension replaces the extension of a resolved descriptor.
func (f *File) ChangeExtension(extension string) error {
	return f.change("change extension", false, func() { f.extension = &extension })
}

// ChangeFileIndex selects another member of a series. It is a no-op for a
// descriptor without a series. Moving within 0..Count-1 keeps a writable
// series writable, as every member was created together.
func (f *File) ChangeFileIndex(index uint) error {
	if f.series == nil {
		return nil
	}
	inSeries := index < f.series.Count
	return f.change("change file index", inSeries, func() { f.series.Index = index })
}

// Materialization

// InitializeOutput creates the backing file(s), truncating existing content,
// and writes the header line if one is set. A series creates every member,
// leaving the index at Count-1.
//
// The descriptor is resolved first if needed; an incomplete descriptor
// fails with KindNotInitialized.
func (f *File) InitializeOutput() error {
	if f.state == StateBuilder {
		if _, ok := f.Resolve(); !ok {
			return errors.New(errors.KindNotInitialized, "initialize", "", errors.ErrNotInitialized)
		}
	}

	if f.series == nil {
		if err := f.create(); err != nil {
			return err
		}
	} else {
		if f.series.Count == 0 {
			return errors.New(errors.KindInvalidConfig, "initialize", f.path, errors.ErrEmptySeries)
		}
		for i := uint(0); i < f.series.Count; i++ {
			f.series.Index = i
			f.Resolve()
			if err := f.create(); err != nil {
				return err
			}
		}
	}

	f.state = StateWritable

	p, err := ioutils.Canonicalize(f.path)
	if err != nil {
		f.log().Warn("could not canonicalize output path", "path", f.path, "error", err)
		return nil
	}
	f.path = p
	return nil
}

// create makes the parent chain and truncates the file at the current path.
func (f *File) create() error {
	dir := filepath.Dir(f.path)
	if err := ioutils.EnsureDir(dir); err != nil {
		return errors.New(errors.KindDirectoryCreate, "initialize", dir, err)
	}

	if err := ioutils.CreateTruncated(f.path, f.header); err != nil {
		var headerErr *ioutils.HeaderError
		if errors.As(err, &headerErr) {
			return errors.New(errors.KindHeaderWrite, "initialize", f.path, headerErr.Err)
		}
		return errors.New(errors.KindFileOpen, "initialize", f.path, err)
	}

	f.log().Debug("created output file", "path", f.path, "header", f.header != nil)
	return nil
}

// MarkReadOnly leaves the existing file untouched and denies writes to it.
func (f *File) MarkReadOnly() error {
	if f.state == StateBuilder {
		if _, ok := f.Resolve(); !ok {
			return errors.New(errors.KindNotInitialized, "mark read-only", "", errors.ErrNotInitialized)
		}
	}
	f.path = canonicalOrRaw(f.path)
	f.state = StateReadOnly
	return nil
}

// Write access

// Open opens the resolved path in append mode.
func (f *File) Open() (*os.File, error) {
	switch f.state {
	case StateBuilder:
		return nil, errors.New(errors.KindNotInitialized, "open", "", errors.ErrNotInitialized)
	case StateWritable:
	default:
		return nil, errors.New(errors.KindNotWritable, "open", f.path, errors.ErrNotWritable)
	}

	file, err := ioutils.OpenAppend(f.path)
	if err != nil {
		return nil, errors.New(errors.KindFileOpen, "open", f.path, err)
	}
	return file, nil
}

// Buffer is a buffered append handle. Close flushes before closing.
type Buffer struct {
	*bufio.Writer
	file *os.File
}

// Close flushes buffered data and closes the file.
func (b *Buffer) Close() error {
	flushErr := b.Flush()
	closeErr := b.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// OpenBuffer is Open wrapped in a bufio.Writer.
func (f *File) OpenBuffer() (*Buffer, error) {
	file, err := f.Open()
	if err != nil {
		return nil, err
	}
	return &Buffer{Writer: bufio.NewWriter(file), file: file}, nil
}

// Accessors

// Path returns the resolved path.
func (f *File) Path() (string, error) {
	if f.state == StateBuilder {
		return "", errors.New(errors.KindNotInitialized, "path", "", errors.ErrNotInitialized)
	}
	return f.path, nil
}

// PathString is Path that additionally rejects paths that are not valid
// UTF-8 text.
func (f *File) PathString() (string, error) {
	p, err := f.Path()
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(p) {
		return "", errors.New(errors.KindInvalidPath, "path", p, errors.ErrNotUTF8)
	}
	return p, nil
}

// MustPath is like Path but panics if the descriptor is unresolved.
func (f *File) MustPath() string {
	p, err := f.Path()
	if err != nil {
		panic(err)
	}
	return p
}

// Members returns the path of every file the descriptor materializes: one
// path, or one per series index. Paths that exist are canonicalized.
func (f *File) Members() ([]string, error) {
	if f.state == StateBuilder {
		return nil, errors.New(errors.KindNotInitialized, "members", "", errors.ErrNotInitialized)
	}
	if f.series == nil {
		return []string{f.path}, nil
	}

	members := make([]string, 0, f.series.Count)
	for i := uint(0); i < f.series.Count; i++ {
		raw, _ := f.rawPath(i)
		members = append(members, canonicalOrRaw(raw))
	}
	return members, nil
}

// Writable reports whether appends are permitted.
func (f *File) Writable() bool {
	return f.state == StateWritable
}

// Initialized reports whether the path has been resolved.
func (f *File) Initialized() bool {
	return f.state != StateBuilder
}

// State returns the lifecycle stage.
func (f *File) State() State {
	return f.state
}

// Header returns the header line, if set.
func (f *File) Header() (string, bool) {
	if f.header == nil {
		return "", false
	}
	return *f.header, true
}

// Series returns the series configuration, if set.
func (f *File) Series() (Series, bool) {
	if f.series == nil {
		return Series{}, false
	}
	return *f.series, true
}

// OutputPath returns the output directory relative to the project path, if
// set.
func (f *File) OutputPath() (string, bool) {
	if f.outputPath == nil {
		return "", false
	}
	return *f.outputPath, true
}
