package domain

import "fmt"

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindValidation
	KindPermission
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	case KindUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Error is the error type returned by the service and storage layers. Field
// names the offending input for validation errors.
type Error struct {
	Kind      ErrorKind
	Field     string
	Message   string
	Duplicate bool
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Is matches on kind, so errors.Is(err, ErrNotFound) holds for every not-found
// error. An unauthenticated caller is also a permission failure, and
// ErrDuplicate only matches unique-key violations.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Duplicate && !e.Duplicate {
		return false
	}
	return t.Kind == e.Kind || (t.Kind == KindPermission && e.Kind == KindUnauthenticated)
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation      = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrDuplicate       = &Error{Kind: KindValidation, Message: "already exists", Duplicate: true}
	ErrPermission      = &Error{Kind: KindPermission, Message: "permission denied"}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
)

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Validation(field, format string, args ...any) error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message, Duplicate: true}
}

func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}
