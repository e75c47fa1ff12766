// Package core provides the cross-cutting primitives shared by every
// component: the error kinds components report through, and path
// normalization helpers.
package core

import (
	"errors"
	"fmt"
)

// Kind is one of the seven error categories every component reports through.
type Kind int

const (
	// NotFound means the requested symbol, file, or project does not exist
	// in the loaded solution.
	NotFound Kind = iota
	// InvalidInput means the request itself is malformed (empty locator,
	// unsupported mode, out-of-range offsets).
	InvalidInput
	// Ambiguous means the locator matched more than one candidate and none
	// could be preferred with confidence.
	Ambiguous
	// LoadFailed means the solution or a project within it could not be
	// loaded (missing go.mod, broken go.work, packages.Load error).
	LoadFailed
	// ConflictFailed means a refactoring's changes could not be applied:
	// workspace.Apply returns it when writing or moving the changed files
	// fails.
	ConflictFailed
	// AnalysisFailed means an analysis step (smell scan, diagnostics,
	// dependency walk) could not complete due to an internal error distinct
	// from LoadFailed.
	AnalysisFailed
	// TooLarge means a result or input exceeded a configured size ceiling
	// (file read, response payload).
	TooLarge
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Ambiguous:
		return "ambiguous"
	case LoadFailed:
		return "load_failed"
	case ConflictFailed:
		return "conflict_failed"
	case AnalysisFailed:
		return "analysis_failed"
	case TooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Error is the typed error every component returns instead of a bare error
// value, so callers can branch on Kind with errors.As.
type Error struct {
	Kind    Kind
	Op      string // component/operation that raised it, e.g. "resolver.resolveSymbol"
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error with a formatted message and no wrapped cause;
// use Wrap to attach one.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that wraps cause.
func Wrap(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the Kind from err, defaulting to AnalysisFailed when err is
// not one of our typed errors (it should always be one, by construction, but
// callers at the tool-dispatch boundary see arbitrary errors too).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return AnalysisFailed
}
