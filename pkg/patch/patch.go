// Package patch provides an explicit optional-field type for partial update
// requests, so an absent JSON field is distinguishable from an explicit value
// (including an explicit null when T is a pointer type).
package patch

import "encoding/json"

// Field is an optional patch field. The zero value means "leave unchanged";
// a decoded JSON value, including null, marks the field present.
type Field[T any] struct {
	Present bool
	Value   T
}

// Set returns a present Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: v}
}

// UnmarshalJSON marks the field present and decodes into Value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON encodes the underlying value; absent fields encode as null and
// should additionally carry omitempty-style handling at the call site.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}
