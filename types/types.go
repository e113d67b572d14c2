package types

import (
	"fmt"
	"strings"

	"bankedit/fault"
	"bankedit/starcode"
)

// Field is one mixed-radix digit of a record.  Nothing on the wire names it;
// only its position in the schema does.
type Field struct {
	Name     string
	Max      uint64
	Checksum bool // counted by the record checksum
}

// Schema is the ordered field table for one kind of record.
// Fields[0] is the most significant digit.
type Schema struct {
	Name   string
	Fields []Field
	index  map[string]int
}

// New_schema builds a schema.  Schemas are package-level tables and are never modified afterwards.
func New_schema(name string, fields ...Field) *Schema {
	s := &Schema{Name: name, Fields: fields, index: map[string]int{}}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("duplicate field %v in schema %v", f.Name, name))
		}
		s.index[f.Name] = i
	}
	return s
}

func (s *Schema) Maxima() []uint64 {
	out := make([]uint64, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Max
	}
	return out
}

// Lookup returns the position of a field, or -1
func (s *Schema) Lookup(name string) int {
	i, ok := s.index[name]
	if !ok {
		return -1
	}
	return i
}

func (s *Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// New returns an all-zero record
func (s *Schema) New() *Record {
	return &Record{Schema: s, Values: make([]uint64, len(s.Fields))}
}

// Make builds a record from named values; unnamed fields are zero.
func (s *Schema) Make(values map[string]uint64) (*Record, error) {
	r := s.New()
	for name, v := range values {
		err := r.Set(name, v)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Decode turns a blob into a record.
func (s *Schema) Decode(blob string) (*Record, error) {
	acc, err := starcode.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", s.Name, err)
	}
	values, err := starcode.Unpack(acc, s.Maxima())
	if err != nil {
		return nil, fmt.Errorf("%v: %w", s.Name, err)
	}
	return &Record{Schema: s, Values: values}, nil
}

// Encode turns a record back into a blob.  Every field is checked against its maximum first.
func (s *Schema) Encode(r *Record) (string, error) {
	if r.Schema != s {
		return "", fmt.Errorf("%w: %v record given to %v schema", fault.ErrSchemaMismatch, r.Schema.Name, s.Name)
	}
	err := r.Validate()
	if err != nil {
		return "", err
	}
	acc, err := starcode.Pack(r.Values, s.Maxima())
	if err != nil {
		return "", fmt.Errorf("%v: %w", s.Name, err)
	}
	return starcode.Encode(acc)
}

// Record is one complete assignment of values to a schema.
type Record struct {
	Schema *Schema
	Values []uint64
}

func (r *Record) Get(name string) (uint64, error) {
	i := r.Schema.Lookup(name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %v has no field %v", fault.ErrNoSuchField, r.Schema.Name, name)
	}
	return r.Values[i], nil
}

// Set changes a field, refusing anything above the field's maximum.
func (r *Record) Set(name string, v uint64) error {
	i := r.Schema.Lookup(name)
	if i < 0 {
		return fmt.Errorf("%w: %v has no field %v", fault.ErrNoSuchField, r.Schema.Name, name)
	}
	f := r.Schema.Fields[i]
	if v > f.Max {
		return fmt.Errorf("%w: %v.%v = %v (max %v)", fault.ErrValueOutOfRange, r.Schema.Name, name, v, f.Max)
	}
	r.Values[i] = v
	return nil
}

// Must_get is Get for names known to be in the schema
func (r *Record) Must_get(name string) uint64 {
	v, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *Record) Validate() error {
	if len(r.Values) != len(r.Schema.Fields) {
		return fmt.Errorf("%w: %v has %d values, expected %d", fault.ErrValueCount, r.Schema.Name, len(r.Values), len(r.Schema.Fields))
	}
	for i, f := range r.Schema.Fields {
		if r.Values[i] > f.Max {
			return fmt.Errorf("%w: %v.%v = %v (max %v)", fault.ErrValueOutOfRange, r.Schema.Name, f.Name, r.Values[i], f.Max)
		}
	}
	return nil
}

func (r *Record) Encode() (string, error) {
	return r.Schema.Encode(r)
}

func (r *Record) Clone() *Record {
	return &Record{Schema: r.Schema, Values: append([]uint64{}, r.Values...)}
}

func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Schema != other.Schema || len(r.Values) != len(other.Values) {
		return false
	}
	for i := range r.Values {
		if r.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}

// String lists non-zero fields, which is usually what you want to look at
func (r *Record) String() string {
	parts := []string{}
	for i, f := range r.Schema.Fields {
		if r.Values[i] != 0 {
			parts = append(parts, fmt.Sprintf("%v=%v", f.Name, r.Values[i]))
		}
	}
	return r.Schema.Name + "{" + strings.Join(parts, ", ") + "}"
}
