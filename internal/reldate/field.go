package reldate

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/tartampluch/go-reldate/internal/config"
)

// maxExactFloat is the largest magnitude up to which every integer is
// representable as a float64.
const maxExactFloat = 1 << 53

// MaxMagnitude bounds the value of a valid field. Years, months, weeks and
// days up to this size stay far inside the range of time.Time, so month and
// week arithmetic cannot overflow. Larger values are invalid fields.
const MaxMagnitude = math.MaxInt32

// Field is one classified slot of a Description.
type Field struct {
	// Raw is the value as supplied, nil when the slot was absent.
	Raw any

	// Value is the parsed integer. It is meaningful only when Valid is set
	// and Last is not.
	Value int

	// Last reports that the day slot carried the literal "last".
	Last bool

	// Valid reports that Raw is an integer, an integral number, an integer
	// string (optionally signed) or, for the day slot only, "last", and that
	// its magnitude is at most MaxMagnitude.
	Valid bool

	// Relative reports that Value is an offset rather than a value to set.
	// Only meaningful when Valid is set.
	Relative bool
}

// Absolute reports whether the field is valid and sets its component directly.
func (f Field) Absolute() bool {
	return f.Valid && !f.Relative
}

// isRelative is the classification rule for valid numeric fields: an
// explicit "+" or "-" in the text, a zero value, or a negative value all
// make a field relative. A bare positive value is absolute.
func isRelative(explicitSign bool, value int) bool {
	switch {
	case explicitSign:
		return true
	case value == 0:
		return true
	case value < 0:
		return true
	}
	return false
}

// classify builds the Field for one raw slot value. allowLast is set for the
// day slot.
func classify(raw any, allowLast bool) Field {
	f := Field{Raw: raw}
	var signed bool
	switch v := raw.(type) {
	case nil:
		return f
	case string:
		if allowLast && v == config.DayLast {
			f.Last, f.Valid = true, true
			return f
		}
		f.Value, signed, f.Valid = parseText(v)
	case json.Number:
		f.Value, signed, f.Valid = parseNumber(v)
	case int:
		f.Value, f.Valid = v, true
	case int8:
		f.Value, f.Valid = int(v), true
	case int16:
		f.Value, f.Valid = int(v), true
	case int32:
		f.Value, f.Valid = int(v), true
	case int64:
		f.Value, f.Valid = fromInt64(v)
	case uint:
		f.Value, f.Valid = fromUint64(uint64(v))
	case uint8:
		f.Value, f.Valid = int(v), true
	case uint16:
		f.Value, f.Valid = int(v), true
	case uint32:
		f.Value, f.Valid = fromUint64(uint64(v))
	case uint64:
		f.Value, f.Valid = fromUint64(v)
	case float32:
		f.Value, f.Valid = fromFloat(float64(v))
	case float64:
		f.Value, f.Valid = fromFloat(v)
	default:
		return f
	}
	if f.Valid && (f.Value > MaxMagnitude || f.Value < -MaxMagnitude) {
		f.Value, f.Valid = 0, false
	}
	if f.Valid {
		f.Relative = isRelative(signed, f.Value)
	}
	return f
}

// parseText parses a whole base-10 integer with an optional sign prefix.
// Leading or trailing content of any other kind makes it invalid.
func parseText(s string) (value int, signed bool, ok bool) {
	if s == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, false
	}
	return n, s[0] == '+' || s[0] == '-', true
}

// parseNumber reads a decoded number. Integer literals keep their sign like
// text; other literals such as 2000.0 or 1e3 follow the float rule.
func parseNumber(n json.Number) (value int, signed bool, ok bool) {
	s := n.String()
	if value, signed, ok = parseText(s); ok {
		return value, signed, true
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	if value, ok = fromFloat(fv); !ok {
		return 0, false, false
	}
	return value, s[0] == '+' || s[0] == '-', true
}

func fromInt64(v int64) (int, bool) {
	if v > math.MaxInt || v < math.MinInt {
		return 0, false
	}
	return int(v), true
}

func fromUint64(v uint64) (int, bool) {
	if v > math.MaxInt {
		return 0, false
	}
	return int(v), true
}

// fromFloat accepts finite integral values only; decoders that hand every
// number over as a float64 still produce valid fields.
func fromFloat(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if math.Abs(v) > maxExactFloat {
		return 0, false
	}
	return int(v), true
}
