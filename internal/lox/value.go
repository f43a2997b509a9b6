package lox

import (
	"strconv"
)

// Value is a Lox runtime value. The tagged variant from spec.md §3 maps
// directly onto Go's dynamic typing: nil is Lox nil, bool and float64
// are bool/number, string is string, and Callable/*Class/*Instance cover
// the callable and object subtypes. Every type switch below is a tag
// inspection over this set — there is no separate boxing layer.
type Value = any

// IsTruthy implements spec.md §4.5: nil and false are falsy, everything
// else — including 0 and "" — is truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}

// valuesEqual is strict, non-coercing equality: nil equals only nil, and
// values of different dynamic types are never equal (spec.md §4.5).
func valuesEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// stringify renders v the way `print` and string concatenation do
// (spec.md §4.5).
func stringify(v Value) string {
	switch t := v.(type) {
	case nil:
		return "Nil"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(t)
	case string:
		return t
	case Callable:
		return t.String()
	case *Class:
		return t.Name
	case *Instance:
		return t.Class.Name + " <instance>"
	default:
		return "<unknown>"
	}
}

// formatNumber prints a float64 in Lox's natural textual form: integral
// values print without a trailing ".0", matching the canonical jlox
// stringify behavior this spec's numeric model is carried from.
// strconv's shortest round-tripping 'f' representation already omits
// the decimal point for whole values, so no further trimming is needed.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
