package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNextBirthday covers standard dates, the end of year boundary and
// leap year birthdays.
func TestNextBirthday(t *testing.T) {
	// Reference "Now": June 15th, 2025 (Non-Leap Year)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		contact  contact
		expected time.Time
		born     bool
	}{
		{
			name:     "Birthday in the past (this year)",
			contact:  contact{BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), YearKnown: true},
			expected: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			born:     true,
		},
		{
			name:     "Birthday in the future (this year)",
			contact:  contact{BirthDate: time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC), YearKnown: true},
			expected: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			born:     true,
		},
		{
			name:     "Birthday is Today",
			contact:  contact{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), YearKnown: true},
			expected: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			born:     true,
		},
		{
			name:     "Year Unknown - Past",
			contact:  contact{BirthDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
			expected: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			born:     true,
		},
		{
			name:     "Leapling - Non-Leap Year (Feb 29 -> Mar 1)",
			contact:  contact{BirthDate: time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), YearKnown: true},
			expected: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			born:     true,
		},
		{
			name:    "Not born yet",
			contact: contact{BirthDate: time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), YearKnown: true},
			born:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := nextBirthday(now, tt.contact)
			assert.Equal(t, tt.born, ok)
			if tt.born {
				assert.Equal(t, tt.expected, next)
			}
		})
	}
}

// TestNextBirthday_LeapYearContext checks that Feb 29 is kept when the
// current year is a leap year.
func TestNextBirthday_LeapYearContext(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	next, ok := nextBirthday(now, contact{BirthDate: time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), YearKnown: true})

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), next)
}

func TestNextBirthday_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2025, 6, 15, 23, 30, 0, 0, loc)

	next, ok := nextBirthday(now, contact{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), YearKnown: true})
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), next, "Today in the local calendar counts")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		want      time.Time
		yearKnown bool
		wantErr   bool
	}{
		{"ISO8601 Standard", "1990-10-25", time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC), true, false},
		{"Basic Format", "19901025", time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC), true, false},
		{"RFC3339", "1990-10-25T00:00:00Z", time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC), true, false},
		{"Truncated (Month-Day)", "--10-25", time.Date(2000, 10, 25, 0, 0, 0, 0, time.UTC), false, false},
		{"Truncated Basic", "--1025", time.Date(2000, 10, 25, 0, 0, 0, 0, time.UTC), false, false},
		{"Truncated Leap Day", "--02-29", time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), false, false},
		{"Garbage Data", "not-a-date", time.Time{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, yearKnown, err := parseDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, tt.yearKnown, yearKnown)
		})
	}
}

func TestDecodeContacts(t *testing.T) {
	vcards := strings.Join([]string{
		"BEGIN:VCARD\nVERSION:3.0\nFN:Formatted\nN:Doe;John;;;\nBDAY:1990-01-01\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nN:Structured;Only;;;\nBDAY:1991-02-02\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nBDAY:1992-03-03\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nFN:No Date\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nFN:Bad Date\nBDAY:soon\nEND:VCARD",
	}, "\n")

	contacts, err := decodeContacts(context.Background(), strings.NewReader(vcards))
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	assert.Equal(t, "Formatted", contacts[0].Name)
	assert.Contains(t, contacts[1].Name, "Structured")
	assert.Equal(t, "Unknown", contacts[2].Name)
}

func TestDecodeContacts_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := decodeContacts(ctx, strings.NewReader("BEGIN:VCARD\nVERSION:3.0\nEND:VCARD"))
	assert.ErrorIs(t, err, context.Canceled)
}
