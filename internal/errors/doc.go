// Package errors provides the classified error type used by outfiles.
//
// Every failure the file lifecycle can produce is reported as an *Error
// carrying a Kind (what went wrong) and a Class (what the caller should do
// about it). Only one kind is recoverable:
//
//   - KindCollision: a Panic-policy batch found an existing output file.
//
// Everything else (directory creation, file open, header write, archive
// copy, misuse of an unresolved or read-only descriptor) is ClassFatal or
// ClassInvalid. The batch caller decides whether to abort the run.
//
// # Checking errors
//
//	if err := mgr.InitializeOutputFiles(files...); err != nil {
//	    if errors.IsRecoverable(err) {
//	        // retry with a different policy
//	    }
//	    if errors.KindOf(err) == errors.KindArchiveCopy {
//	        // ...
//	    }
//	}
//
// The package also works with the standard library: errors.Is(err,
// errors.ErrOverwriteDenied) and errors.As(err, &*Error) both see through
// wrapping and errors.Join.
package errors
