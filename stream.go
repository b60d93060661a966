package oyaml

import (
	"bytes"
	"errors"
	"io"
	"iter"

	"gopkg.in/yaml.v3"
)

// Documents reads a multi-document YAML stream one document at a time.
// It is forward-only: documents already returned are not produced again.
type Documents struct {
	d   *Dialect
	dec *yaml.Decoder
	err error // sticky; io.EOF once the stream is exhausted
}

// Next returns the next document. It returns (nil, io.EOF) when the stream
// is exhausted. After any other error every later call returns that error.
func (s *Documents) Next() (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			s.err = io.EOF
		} else {
			s.err = &ParseError{Err: err}
		}
		return nil, s.err
	}
	v, err := s.d.newConstructor().Construct(&root)
	if err != nil {
		s.err = err
		return nil, err
	}
	return v, nil
}

// All ranges over the remaining documents. A failure is yielded once as
// (nil, err) and ends the sequence.
func (s *Documents) All() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for {
			v, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// ReadAll reads the remaining documents.
func (s *Documents) ReadAll() ([]any, error) {
	var out []any
	for v, err := range s.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// LoadAll returns a lazy reader over the documents in r.
func (d *Dialect) LoadAll(r io.Reader) *Documents {
	return &Documents{d: d, dec: yaml.NewDecoder(r)}
}

// Load parses the first document in data. Empty input yields nil.
func (d *Dialect) Load(data []byte) (any, error) {
	v, err := d.LoadAll(bytes.NewReader(data)).Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return v, err
}
