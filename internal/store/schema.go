package store

import "fmt"

// Schema is the explicit field mapping for one document type. Field and Set are
// switch-based accessors over logical field names, so no reflection is involved.
type Schema[T any] struct {
	Name   string
	ID     func(T) string
	SetID  func(*T, string)
	Field  func(T, string) (any, bool)
	Set    func(*T, string, any) error
	Unique []string
}

// UnknownField reports a logical field the schema does not map.
func UnknownField(collection, field string) error {
	return fmt.Errorf("store: %s has no field %q", collection, field)
}

// WrongType reports a Set value of an unexpected type.
func WrongType(collection, field string, value any) error {
	return fmt.Errorf("store: %s.%s cannot hold %T", collection, field, value)
}
