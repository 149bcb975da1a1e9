package reldate

import (
	"bytes"
	"encoding/json"

	"github.com/tartampluch/go-reldate/internal/config"
)

// Input is the typed keyed form of a description. A nil field is absent.
// It decodes from either a JSON object or a JSON array [year, month, day, week].
type Input struct {
	Year  any `json:"year"`
	Month any `json:"month,omitempty"`
	Day   any `json:"day"`
	Week  any `json:"week,omitempty"`
}

func (in Input) slots() [config.SequenceLength]any {
	return [config.SequenceLength]any{in.Year, in.Month, in.Day, in.Week}
}

// UnmarshalJSON accepts both description shapes. Numbers are kept as
// json.Number so that integer literals are read exactly; 2000.0 is as valid
// as 2000, the same as a float64 2000.0 in a map.
func (in *Input) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	slots, err := extract(raw)
	if err != nil {
		return err
	}
	in.Year, in.Month, in.Day, in.Week = slots[0], slots[1], slots[2], slots[3]
	return nil
}
