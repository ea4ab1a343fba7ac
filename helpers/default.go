package helpers

// Default returns fallback when value is the zero value of its type, otherwise value.
// Note: if the zero value is a legitimate, intentionally set value (a 0% rate, a
// false flag that should stay false) this is the wrong helper to reach for!!
func Default[T comparable](value T, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// DefaultString is kept as a named shorthand, config loading reads nicer with it.
func DefaultString(value string, fallback string) string {
	return Default(value, fallback)
}
