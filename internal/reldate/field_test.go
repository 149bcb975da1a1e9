package reldate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsRelative covers each condition of the classification on its own.
func TestIsRelative(t *testing.T) {
	tests := []struct {
		name     string
		signed   bool
		value    int
		relative bool
	}{
		{"explicit plus", true, 5, true},
		{"explicit minus", true, -5, true},
		{"explicit plus zero", true, 0, true},
		{"zero", false, 0, true},
		{"negative", false, -3, true},
		{"bare positive", false, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.relative, isRelative(tt.signed, tt.value))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		allowLast bool
		want      Field
	}{
		{"absent", nil, false, Field{}},
		{"int", 5, false, Field{Raw: 5, Value: 5, Valid: true}},
		{"numeric string", "5", false, Field{Raw: "5", Value: 5, Valid: true}},
		{"plus string", "+5", false, Field{Raw: "+5", Value: 5, Valid: true, Relative: true}},
		{"minus string", "-5", false, Field{Raw: "-5", Value: -5, Valid: true, Relative: true}},
		{"negative int", -5, false, Field{Raw: -5, Value: -5, Valid: true, Relative: true}},
		{"zero", 0, false, Field{Raw: 0, Valid: true, Relative: true}},
		{"zero string", "0", false, Field{Raw: "0", Valid: true, Relative: true}},
		{"padded zero string", "00", false, Field{Raw: "00", Valid: true, Relative: true}},
		{"last day", "last", true, Field{Raw: "last", Last: true, Valid: true}},
		{"last outside day", "last", false, Field{Raw: "last"}},
		{"trailing text", "5x", false, Field{Raw: "5x"}},
		{"leading space", " 5", false, Field{Raw: " 5"}},
		{"empty string", "", false, Field{Raw: ""}},
		{"lone sign", "+", false, Field{Raw: "+"}},
		{"integral float", 2.0, false, Field{Raw: 2.0, Value: 2, Valid: true}},
		{"negative float", -2.0, false, Field{Raw: -2.0, Value: -2, Valid: true, Relative: true}},
		{"fractional float", 2.5, false, Field{Raw: 2.5}},
		{"json number", json.Number("-3"), false, Field{Raw: json.Number("-3"), Value: -3, Valid: true, Relative: true}},
		{"int64", int64(7), false, Field{Raw: int64(7), Value: 7, Valid: true}},
		{"uint8", uint8(7), false, Field{Raw: uint8(7), Value: 7, Valid: true}},
		{"uint64 overflow", uint64(math.MaxUint64), false, Field{Raw: uint64(math.MaxUint64)}},
		{"bool", true, false, Field{Raw: true}},
		{"json float literal", json.Number("2000.0"), false, Field{Raw: json.Number("2000.0"), Value: 2000, Valid: true}},
		{"json exponent", json.Number("1e3"), false, Field{Raw: json.Number("1e3"), Value: 1000, Valid: true}},
		{"json negative float", json.Number("-2.0"), false, Field{Raw: json.Number("-2.0"), Value: -2, Valid: true, Relative: true}},
		{"json fractional", json.Number("1.5"), false, Field{Raw: json.Number("1.5")}},
		{"largest value", "2147483647", false, Field{Raw: "2147483647", Value: MaxMagnitude, Valid: true}},
		{"largest offset", "-2147483647", false, Field{Raw: "-2147483647", Value: -MaxMagnitude, Valid: true, Relative: true}},
		{"above bound", "2147483648", false, Field{Raw: "2147483648"}},
		{"below bound", "-2147483648", false, Field{Raw: "-2147483648"}},
		{"int64 above bound", int64(math.MaxInt64), false, Field{Raw: int64(math.MaxInt64)}},
		{"float above bound", 1e10, false, Field{Raw: 1e10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.raw, tt.allowLast))
		})
	}

	t.Run("nan", func(t *testing.T) {
		f := classify(math.NaN(), false)
		assert.False(t, f.Valid)
	})
}

func TestNormalize_Shapes(t *testing.T) {
	want := Description{
		Year:  Field{Raw: 0, Valid: true, Relative: true},
		Month: Field{Raw: 1, Value: 1, Valid: true},
		Day:   Field{Raw: "last", Last: true, Valid: true},
	}

	d, err := Normalize([]any{0, 1, "last", nil, "extra"})
	assert.NoError(t, err)
	assert.Equal(t, want, d)

	d, err = Normalize(map[string]any{"year": 0, "month": 1, "day": "last"})
	assert.NoError(t, err)
	assert.Equal(t, want, d)

	d, err = Normalize(Input{Year: 0, Month: 1, Day: "last"})
	assert.NoError(t, err)
	assert.Equal(t, want, d)

	d, err = Normalize(&Input{Year: 0, Month: 1, Day: "last"})
	assert.NoError(t, err)
	assert.Equal(t, want, d)

	d, err = Normalize(map[string]string{"year": "2000", "week": "1", "day": "1"})
	assert.NoError(t, err)
	assert.True(t, d.Week.Absolute())
	assert.False(t, d.Month.Valid)
	assert.Nil(t, d.Month.Raw)
}

func TestNormalize_InvalidFieldsAreRepresented(t *testing.T) {
	d, err := Normalize(map[string]any{"year": "soon", "day": []int{1}})
	assert.NoError(t, err, "Bad fields are the validator's concern")
	assert.False(t, d.Year.Valid)
	assert.False(t, d.Day.Valid)
	assert.Equal(t, ErrInvalidYear, Validate(d))
}
