package types

import (
	"bytes"
	"fmt"
	"iter"

	json "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for building a Field inline.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Record holds named values in the order they were first set. Decoded named
// tuples come back as Records so field order survives a trip through JSON.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord returns a Record holding fields in order. A repeated name keeps
// its first position and takes the last value.
func NewRecord(fields ...Field) *Record {
	r := &Record{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

func (r *Record) Len() int { return len(r.fields) }

// Set stores value under name, appending name when it is new.
func (r *Record) Set(name string, value any) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

func (r *Record) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[i].Value, true
}

// GetAs returns the value under name as U, or the zero U when it is missing
// or of another type.
func GetAs[U any](r *Record, name string) U {
	v, _ := r.Get(name)
	u, _ := v.(U)
	return u
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Fields returns a copy of the fields in order.
func (r *Record) Fields() []Field {
	return append([]Field(nil), r.fields...)
}

// All iterates the fields in order.
func (r *Record) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, f := range r.fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

// MarshalJSON encodes the Record as an object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping its key order. Nested objects
// decode as map[string]any and numbers as float64.
func (r *Record) UnmarshalJSON(data []byte) error {
	*r = Record{index: make(map[string]int)}
	it := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowIterator(data)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnIterator(it)
	if next := it.WhatIsNext(); next != jsoniter.ObjectValue {
		return fmt.Errorf("record: expected object: %w", ErrInvalidArgument)
	}
	it.ReadObjectCB(func(it *jsoniter.Iterator, name string) bool {
		r.Set(name, it.Read())
		return it.Error == nil
	})
	return it.Error
}
