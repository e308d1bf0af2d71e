package form

import "maps"

// Values maps field name to raw text. Numeric and date semantics are only
// enforced by validation.
type Values map[string]string

// Clone returns an independent copy; a nil receiver yields an empty map
func (v Values) Clone() Values {
	out := make(Values, len(v))
	maps.Copy(out, v)
	return out
}

// Errors maps field name to message. A missing or empty message means valid.
type Errors map[string]string

// Valid reports whether no field carries a message
func (e Errors) Valid() bool {
	for _, msg := range e {
		if msg != "" {
			return false
		}
	}
	return true
}

func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	maps.Copy(out, e)
	return out
}

// Compact returns a copy without empty messages
func (e Errors) Compact() Errors {
	out := make(Errors, len(e))
	for k, msg := range e {
		if msg != "" {
			out[k] = msg
		}
	}
	return out
}
