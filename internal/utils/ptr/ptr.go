package ptr

// String creates a pointer to the given string value.
func String(s string) *string {
	return &s
}

// Deref returns the pointed-to value, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Equal reports whether two optional values are both absent or both
// present and equal.
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
