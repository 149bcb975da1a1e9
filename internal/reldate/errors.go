package reldate

import (
	"errors"

	"github.com/tartampluch/go-reldate/internal/config"
)

// Resolution errors, reported in the order Validate checks them.
var (
	ErrInvalidInputKind         = errors.New(config.ErrInvalidInputKind)
	ErrInvalidYear              = errors.New(config.ErrInvalidYear)
	ErrInvalidDay               = errors.New(config.ErrInvalidDay)
	ErrInvalidMonthOrWeek       = errors.New(config.ErrInvalidMonthOrWeek)
	ErrConflictingMonthAndWeek  = errors.New(config.ErrConflictingMonthAndWeek)
	ErrUnsupportedLastDayOfWeek = errors.New(config.ErrUnsupportedLastDayOfWeek)
)
