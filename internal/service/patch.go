package service

import (
	"bytes"
	"encoding/json"
)

// Patch is an optional, nullable field of a partial update. Set reports
// whether the field was present; Value is nil when it was set to null.
type Patch[T any] struct {
	Set   bool
	Value *T
}

// Val returns a Patch setting the field to v.
func Val[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: &v}
}

// Null returns a Patch clearing the field.
func Null[T any]() Patch[T] {
	return Patch[T]{Set: true}
}

// UnmarshalJSON marks the field as set. JSON null clears it.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}
