package model

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rate is an hourly consultation fee with cent precision.
// The zero value is an absent rate; absent and unparseable rates are
// invalid and never satisfy a numeric predicate.
type Rate struct {
	amount float64
	ok     bool
}

// NewRate returns a valid rate rounded to cents, or an invalid rate for
// negative, NaN or infinite amounts.
func NewRate(amount float64) Rate {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return Rate{}
	}
	return Rate{amount: math.Round(amount*100) / 100, ok: true}
}

// ParseRate parses a decimal string. Invalid input yields an invalid rate.
func ParseRate(s string) Rate {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rate{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Rate{}
	}
	return NewRate(f)
}

func (r Rate) Amount() float64 { return r.amount }

func (r Rate) Valid() bool { return r.ok }

func (r Rate) String() string {
	if !r.ok {
		return ""
	}
	return strconv.FormatFloat(r.amount, 'f', 2, 64)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.amount, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else decodes
// to an invalid rate rather than failing the enclosing document.
func (r *Rate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if string(data) == "null" {
		*r = Rate{}
		return nil
	}
	*r = ParseRate(string(data))
	return nil
}

func (r Rate) MarshalYAML() (any, error) {
	if !r.ok {
		return nil, nil
	}
	return r.amount, nil
}

func (r *Rate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*r = Rate{}
		return nil
	}
	*r = ParseRate(node.Value)
	return nil
}
