package oyaml

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotMapping is returned when an OrderedMap is asked to unmarshal a node
// that is not a mapping.
var ErrNotMapping = errors.New("oyaml: node is not a mapping")

// Mark is a 1-based position in the input. The zero Mark means unknown.
type Mark struct {
	Line   int
	Column int
}

func (m Mark) String() string {
	if m.Line == 0 {
		return "unknown position"
	}
	return fmt.Sprintf("line %d, column %d", m.Line, m.Column)
}

// ParseError reports malformed YAML. It wraps the parser error unchanged.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// ConstructorError reports a well-formed node that cannot become a value:
// a disallowed tag, an unhashable key, a bad merge source.
type ConstructorError struct {
	Problem string
	Tag     string
	Mark    Mark
	Err     error // Optional: underlying error.
}

func (e *ConstructorError) Error() string {
	msg := e.Problem
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Mark.Line == 0 {
		return "oyaml: " + msg
	}
	return fmt.Sprintf("oyaml: %s: %s", e.Mark, msg)
}

func (e *ConstructorError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a key that appears twice in one mapping, with
// the position of both occurrences.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("oyaml: duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// RepresenterError reports a value that has no representer.
type RepresenterError struct {
	Value   any
	Type    reflect.Type
	Problem string // Empty means "cannot represent an object".
	Err     error  // Optional: underlying error.
}

func (e *RepresenterError) Error() string {
	msg := e.Problem
	if msg == "" {
		msg = "cannot represent an object"
	}
	s := fmt.Sprintf("oyaml: %s: %v", msg, e.Value)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *RepresenterError) Unwrap() error { return e.Err }
