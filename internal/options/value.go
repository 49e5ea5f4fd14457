package options

// Value is an option value that may be absent. The zero Value is absent, which
// keeps "not configured" apart from configured zero values such as an empty
// list or false.
type Value[T any] struct {
	v   T
	set bool
}

// ValueOf returns a present Value holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// Value returns the held value and whether it is present.
func (v Value[T]) Value() (T, bool) {
	return v.v, v.set
}

// IsSet reports whether the value is present.
func (v Value[T]) IsSet() bool {
	return v.set
}

// Resolve picks the effective option value. A present persistent value is
// returned first, then a present command-line value; otherwise def is
// returned as given.
func Resolve[T any](persistent, cli Value[T], def T) T {
	if v, ok := persistent.Value(); ok {
		return v
	}
	if v, ok := cli.Value(); ok {
		return v
	}
	return def
}
