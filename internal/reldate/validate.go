package reldate

// Validate checks the field combination rules. The checks run in a fixed
// order and the first violation is returned:
//
//   - year must be valid
//   - day must be valid
//   - month or week must be valid
//   - month and week must not both be valid
//   - day may not be "last" when week is in play
func Validate(d Description) error {
	switch {
	case !d.Year.Valid:
		return ErrInvalidYear
	case !d.Day.Valid:
		return ErrInvalidDay
	case !d.Month.Valid && !d.Week.Valid:
		return ErrInvalidMonthOrWeek
	case d.Month.Valid && d.Week.Valid:
		return ErrConflictingMonthAndWeek
	case d.Week.Valid && d.Day.Last:
		return ErrUnsupportedLastDayOfWeek
	}
	return nil
}
