package carbon

import (
	"bytes"
	"math"
	"strconv"
)

// notApplicable is how an undefined percentage is reported.
const notApplicable = "N/A"

// Percent is a percentage that may be undefined because its denominator was zero.
type Percent struct {
	Value   float64
	Defined bool
}

// PercentOf returns part/whole*100, undefined when whole is zero or the result
// is not finite.
func PercentOf(part, whole float64) Percent {
	if whole == 0 {
		return Percent{}
	}
	v := part / whole * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Percent{}
	}
	return Percent{Value: v, Defined: true}
}

// String formats the percentage with one decimal, or "N/A".
func (p Percent) String() string {
	if !p.Defined {
		return notApplicable
	}
	return strconv.FormatFloat(p.Value, 'f', 1, 64) + "%"
}

// MarshalJSON encodes a defined percentage as a number and an undefined one as "N/A".
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Defined {
		return []byte(`"` + notApplicable + `"`), nil
	}
	return strconv.AppendFloat(nil, p.Value, 'g', -1, 64), nil
}

// UnmarshalJSON accepts a number or the "N/A" marker.
func (p *Percent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte(`"`+notApplicable+`"`)) || bytes.Equal(data, []byte("null")) {
		*p = Percent{}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*p = Percent{Value: v, Defined: true}
	return nil
}
