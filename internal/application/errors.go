package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated means the request carried no usable bearer header.
	ErrUnauthenticated = errors.New("no token, authorization denied")
	// ErrInvalidToken covers bad signatures, expiry and tokens whose user is gone.
	ErrInvalidToken       = errors.New("token is not valid")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrBlogNotFound is returned for missing blogs and for blogs owned by
	// someone else; callers cannot tell the two apart.
	ErrBlogNotFound = errors.New("blog not found")
	ErrValidation   = errors.New("validation failed")
)

// ValidationError lists the offending fields. errors.Is(err, ErrValidation)
// holds for every ValidationError.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Message is the single human sentence the API puts in the envelope.
func (e *ValidationError) Message() string {
	_, title := e.Fields["title"]
	_, content := e.Fields["content"]
	switch {
	case title && content:
		return "Title and content are required"
	case title:
		return "Title is required"
	case content:
		return "Content is required"
	default:
		return "Invalid blog payload"
	}
}
