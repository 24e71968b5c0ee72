package customer

// Optional distinguishes "field not present in the command" from a present
// zero value. A present empty string clears the attribute; an absent field
// leaves it unchanged. The zero Optional is absent.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true}
}

// FromPointer maps a nullable transport field onto an Optional: nil means
// absent, anything else is present with the pointed-to value.
func FromPointer[T any](p *T) Optional[T] {
	if p == nil {
		return Optional[T]{}
	}
	return Some(*p)
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set
}

// Or returns the contained value when present, otherwise the fallback.
func (o Optional[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}
