// Package optional provides a tri-state JSON field that distinguishes
// "absent", "explicitly null" and "set to a value". Plain pointers can
// only express two of those states, which makes it impossible for a
// PATCH body to clear a nullable field.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field wraps a value decoded from JSON. After unmarshalling:
//
//	Set == false                 -> the key was absent
//	Set == true,  Valid == false -> the key was present and null
//	Set == true,  Valid == true  -> the key was present with a value
type Field[T any] struct {
	Value T
	Set   bool
	Valid bool
}

// Of returns a Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true, Valid: true}
}

// Null returns a Field representing an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON is only invoked for keys present in the payload, so Set
// is always true here; absent keys keep the zero Field.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(data, []byte("null")) {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// MarshalJSON round-trips the tri-state: unset and null both encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
