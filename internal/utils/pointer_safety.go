// Package utils holds small generic helpers shared across the clients.
package utils

// Value dereferences v, yielding the zero value when v is nil. Used when a
// response field has already been checked for presence.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v, handy for building optional payload fields.
func Ptr[T any](v T) *T {
	return &v
}
