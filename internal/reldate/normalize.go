package reldate

import (
	"encoding/json"
	"fmt"

	"github.com/tartampluch/go-reldate/internal/config"
)

// Description is the classified form of a relative date description.
type Description struct {
	Year  Field
	Month Field
	Day   Field
	Week  Field
}

// slotKeys is the order of an ordered description and the keys of a keyed one.
var slotKeys = [config.SequenceLength]string{
	config.FieldYear,
	config.FieldMonth,
	config.FieldDay,
	config.FieldWeek,
}

// Normalize classifies every slot of input. Ordered input is
// [year, month, day, week] with at least four entries; keyed input exposes
// the keys year, month, day and week, any of which may be missing.
// Individual invalid fields are represented, not rejected; only an input of
// the wrong shape fails, with ErrInvalidInputKind.
func Normalize(input any) (Description, error) {
	slots, err := extract(input)
	if err != nil {
		return Description{}, err
	}
	return Description{
		Year:  classify(slots[0], false),
		Month: classify(slots[1], false),
		Day:   classify(slots[2], true),
		Week:  classify(slots[3], false),
	}, nil
}

func extract(input any) ([config.SequenceLength]any, error) {
	switch v := input.(type) {
	case Input:
		return v.slots(), nil
	case *Input:
		if v != nil {
			return v.slots(), nil
		}
	case map[string]any:
		return fromMap(v), nil
	case map[string]string:
		return fromMap(v), nil
	case map[string]int:
		return fromMap(v), nil
	case []any:
		return fromSequence(v)
	case []string:
		return fromSequence(v)
	case []int:
		return fromSequence(v)
	case []json.Number:
		return fromSequence(v)
	}
	return [config.SequenceLength]any{}, fmt.Errorf("%w (%T)", ErrInvalidInputKind, input)
}

func fromMap[V any](m map[string]V) [config.SequenceLength]any {
	var slots [config.SequenceLength]any
	for i, key := range slotKeys {
		if v, ok := m[key]; ok {
			slots[i] = v
		}
	}
	return slots
}

func fromSequence[V any](seq []V) ([config.SequenceLength]any, error) {
	var slots [config.SequenceLength]any
	if len(seq) < config.SequenceLength {
		return slots, fmt.Errorf("%w (sequence of %d entries, need %d)",
			ErrInvalidInputKind, len(seq), config.SequenceLength)
	}
	for i := range slots {
		slots[i] = seq[i]
	}
	return slots, nil
}
