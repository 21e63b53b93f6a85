package errors

import (
	"errors"
	"fmt"
)

// Class tells the caller how to react to an error.
type Class int

const (
	// ClassRecoverable errors can be retried with different settings.
	ClassRecoverable Class = iota
	// ClassInvalid errors come from bad configuration or API misuse.
	ClassInvalid
	// ClassFatal errors come from the environment (filesystem failures).
	ClassFatal
)

// String returns the string representation of Class.
func (c Class) String() string {
	switch c {
	case ClassRecoverable:
		return "recoverable"
	case ClassInvalid:
		return "invalid"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Kind identifies the failing step.
type Kind int

const (
	KindUnknown Kind = iota
	KindCollision
	KindDirectoryCreate
	KindFileOpen
	KindHeaderWrite
	KindArchiveCopy
	KindArchivePath
	KindNotInitialized
	KindNotWritable
	KindInvalidPath
	KindInvalidConfig
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindCollision:       "collision",
	KindDirectoryCreate: "directory create failed",
	KindFileOpen:        "file open failed",
	KindHeaderWrite:     "header write failed",
	KindArchiveCopy:     "archive copy failed",
	KindArchivePath:     "archive path underivable",
	KindNotInitialized:  "not initialized",
	KindNotWritable:     "not writable",
	KindInvalidPath:     "invalid path",
	KindInvalidConfig:   "invalid configuration",
}

// String returns the string representation of Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Class returns the default classification of a kind.
func (k Kind) Class() Class {
	switch k {
	case KindCollision:
		return ClassRecoverable
	case KindNotInitialized, KindNotWritable, KindInvalidPath, KindInvalidConfig, KindArchivePath:
		return ClassInvalid
	default:
		return ClassFatal
	}
}

// Standard error variables
var (
	// ErrOverwriteDenied is the cause of every KindCollision error.
	ErrOverwriteDenied = errors.New("Permission denied to overwrite existing output files.")

	ErrNotInitialized = errors.New("output file path has not been resolved")
	ErrNotWritable    = errors.New("output file is not writable")
	ErrNoParent       = errors.New("path has no parent directory name")
	ErrNoFileName     = errors.New("path has no file name")
	ErrNotUTF8        = errors.New("path is not valid UTF-8")
	ErrEmptySeries    = errors.New("series has no members")
)

// Error is a classified error produced by the output lifecycle.
type Error struct {
	Class   Class
	Kind    Kind
	Op      string
	Path    string
	Err     error
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" %q", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: k})
// works regardless of op or path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a classified error for kind.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{
		Class: kind.Class(),
		Kind:  kind,
		Op:    op,
		Path:  path,
		Err:   err,
	}
}

// Collision returns the recoverable error reported when a Panic-policy batch
// meets an existing file. Its message is fixed.
func Collision(path string) *Error {
	return &Error{
		Class:   ClassRecoverable,
		Kind:    KindCollision,
		Op:      "initialize",
		Path:    path,
		Err:     ErrOverwriteDenied,
		Message: ErrOverwriteDenied.Error(),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ClassOf returns the class of the first *Error in err's chain. Unclassified
// errors are fatal.
func ClassOf(err error) Class {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ClassFatal
}

// IsRecoverable reports whether err can be handled by retrying the batch
// with a different policy.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	return ClassOf(err) == ClassRecoverable
}

// IsFatal reports whether err came from the environment.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return ClassOf(err) == ClassFatal
}

// IsInvalid reports whether err came from configuration or API misuse.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}
	return ClassOf(err) == ClassInvalid
}

// Is, As and Join re-export the standard library helpers so callers need a
// single errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func Join(errs ...error) error { return errors.Join(errs...) }
