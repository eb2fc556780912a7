// Package ptr provides helpers for the optional values carried by records.
package ptr

// String creates a pointer to the given string value.
func String(s string) *string {
	return &s
}

// Value returns the pointed-to value, or the zero value for nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
