// Package herr defines the error taxonomy shared across this module's
// packages. Every error returned from a decode or traversal path wraps
// one of the Kind sentinels below so callers can classify failures with
// errors.Is, without the package reaching for a third-party errors
// library the rest of the stack never pulls in either.
package herr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind error

// Sentinel kinds. Wrap one of these with fmt.Errorf("...: %w", kind)
// or construct via New/Newf so errors.Is(err, herr.Malformed) works
// at any call depth.
var (
	// InvalidArgument means a caller passed a value that is structurally
	// impossible to satisfy (negative length, nil source, zero block size).
	InvalidArgument Kind = errors.New("invalid argument")

	// IOError means the underlying block source returned a read failure.
	IOError Kind = errors.New("i/o error")

	// WrongFilesystem means the probed bytes do not carry any signature
	// this package recognizes at all.
	WrongFilesystem Kind = errors.New("not an HFS Plus or HFSX volume")

	// UnsupportedFilesystem means a recognized but out-of-scope variant
	// was found (plain HFS Standard without an embedded wrapper, for example).
	UnsupportedFilesystem Kind = errors.New("unsupported filesystem variant")

	// Malformed means on-disk structures were internally inconsistent:
	// an extent list that doesn't cover a fork's reported length, a
	// B-tree node with an impossible record count, and similar.
	Malformed Kind = errors.New("malformed on-disk structure")

	// StuckTraversal means a bounded loop (fork read, B-tree descent)
	// exceeded its iteration guard without making progress.
	StuckTraversal Kind = errors.New("traversal did not converge")
)

// wrapped pairs a Kind with the specific message describing this
// occurrence, while keeping errors.Is/errors.Unwrap working against
// the Kind sentinel.
type wrapped struct {
	kind Kind
	msg  string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.kind }
func (w *wrapped) Is(target error) bool { return target == w.kind }

// New returns an error of the given kind with a fixed message.
func New(kind Kind, msg string) error {
	return &wrapped{kind: kind, msg: msg}
}

// Newf returns an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &wrapped{kind: kind, msg: fmt.Sprintf(format, args...)}
}
