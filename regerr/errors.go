package regerr

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Kind represents the class of a registry error
type Kind int

const (
	// KindShapeMismatch is an expected element or attribute that was
	// absent inside an otherwise recognised entity
	KindShapeMismatch Kind = iota
	// KindMalformedLiteral is a bad integer or float in a constant or
	// enum value. Always fatal.
	KindMalformedLiteral
	// KindUnknownElement is an element no parser understands
	KindUnknownElement
	// KindSyntax is malformed XML. Always fatal.
	KindSyntax
	// KindUnresolved is a reference to a name that does not exist
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindShapeMismatch:
		return "shape-mismatch"
	case KindMalformedLiteral:
		return "malformed-literal"
	case KindUnknownElement:
		return "unknown-element"
	case KindSyntax:
		return "syntax"
	case KindUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "shape-mismatch":
		*k = KindShapeMismatch
	case "malformed-literal":
		*k = KindMalformedLiteral
	case "unknown-element":
		*k = KindUnknownElement
	case "syntax":
		*k = KindSyntax
	case "unresolved":
		*k = KindUnresolved
	default:
		return errors.New("unknown value")
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Fatal reports whether errors of this kind abort the whole run.
func (k Kind) Fatal() bool { return k == KindMalformedLiteral || k == KindSyntax }

// Error is a registry parsing or resolution error.
//
// Offset is the byte offset into the source document, or -1 when the
// error is not tied to a position (resolution errors).
type Error struct {
	Kind      Kind   `json:"kind"`
	Element   string `json:"element,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Entity    string `json:"entity,omitempty"`
	Literal   string `json:"literal,omitempty"`
	Offset    int    `json:"offset"`
	Message   string `json:"message,omitempty"`
}

func (e Error) Error() string {
	s := e.Kind.String() + " error"
	if e.Element != "" {
		s += " element:" + e.Element
	}
	if e.Attribute != "" {
		s += " attribute:" + e.Attribute
	}
	if e.Entity != "" {
		s += " entity:" + e.Entity
	}
	if e.Literal != "" {
		s += fmt.Sprintf(" literal:%q", e.Literal)
	}
	if e.Offset > -1 {
		s += fmt.Sprintf(" offset:%d", e.Offset)
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	return s
}

func newError(k Kind, opts []Option) *Error {
	e := &Error{Kind: k, Offset: -1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ShapeMismatch(elementName string, opts ...Option) *Error {
	e := newError(KindShapeMismatch, opts)
	e.Element = elementName
	return e
}

func MalformedLiteral(literal string, opts ...Option) *Error {
	e := newError(KindMalformedLiteral, opts)
	e.Literal = literal
	return e
}

func UnknownElement(elementName string, opts ...Option) *Error {
	e := newError(KindUnknownElement, opts)
	e.Element = elementName
	return e
}

func Syntax(opts ...Option) *Error { return newError(KindSyntax, opts) }

func Unresolved(name string, opts ...Option) *Error {
	e := newError(KindUnresolved, opts)
	e.Entity = name
	return e
}

// As returns the *Error at the root of err's cause chain, if any.
func As(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	switch e := errors.Cause(err).(type) {
	case *Error:
		return e, true
	case Error:
		return &e, true
	}
	return nil, false
}

// IsFatal returns true if err must abort the run. Errors that are not
// registry errors are always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := As(err); ok {
		return e.Kind.Fatal()
	}
	return true
}
