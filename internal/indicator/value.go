package indicator

// Value is a single sample of a derived series. Rolling computations that have
// not yet accumulated a full window produce an invalid Value rather than a
// numeric zero, so partially-converged indicators cannot be mistaken for real
// readings downstream.
type Value struct {
	Float64 float64
	Valid   bool
}

// Defined wraps a computed float in a valid Value.
func Defined(f float64) Value {
	return Value{Float64: f, Valid: true}
}

// Undefined is the zero Value, returned for unconverged rolling windows.
var Undefined = Value{}

// AllDefined reports whether every given value carries a real sample.
func AllDefined(values ...Value) bool {
	for _, v := range values {
		if !v.Valid {
			return false
		}
	}
	return true
}
