// Package vtcerr defines the stable error taxonomy shared by every VTC
// component: the lexer, grammar, environment, resolver, intrinsic library,
// and serializer all fail through *Error so callers can branch on Kind
// instead of matching error strings.
package vtcerr

import "fmt"

// Kind tags the category of failure. Kinds are stable across releases.
type Kind int

const (
	Unknown Kind = iota
	ParseError
	FileReadError
	FileWriteError
	NamespaceNotFound
	VariableNotFound
	MissingNamespace
	NoNamespaces
	CircularReference
	IndexOutOfBounds
	InvalidRange
	InvalidAccessor
	TypeError
	ConversionError
	UnknownIntrinsic
	InvalidIntrinsicArgs
	IntrinsicTypeMismatch
	NamespaceAlreadyExists
	CustomFunctionError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case FileReadError:
		return "FileReadError"
	case FileWriteError:
		return "FileWriteError"
	case NamespaceNotFound:
		return "NamespaceNotFound"
	case VariableNotFound:
		return "VariableNotFound"
	case MissingNamespace:
		return "MissingNamespace"
	case NoNamespaces:
		return "NoNamespaces"
	case CircularReference:
		return "CircularReference"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	case InvalidRange:
		return "InvalidRange"
	case InvalidAccessor:
		return "InvalidAccessor"
	case TypeError:
		return "TypeError"
	case ConversionError:
		return "ConversionError"
	case UnknownIntrinsic:
		return "UnknownIntrinsic"
	case InvalidIntrinsicArgs:
		return "InvalidIntrinsicArgs"
	case IntrinsicTypeMismatch:
		return "IntrinsicTypeMismatch"
	case NamespaceAlreadyExists:
		return "NamespaceAlreadyExists"
	case CustomFunctionError:
		return "CustomFunctionError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by the VTC engine packages
// listed above (toolconfig, the CLI's own YAML config loader, wraps its
// failures with github.com/pkg/errors instead).
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error with no underlying cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap constructs an *Error that wraps an underlying cause.
func Wrap(kind Kind, cause error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, else Unknown.
func KindOf(err error) Kind {
	var e *Error
	for err != nil {
		if asErr, ok := err.(*Error); ok {
			e = asErr
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return Unknown
	}
	return e.Kind
}
