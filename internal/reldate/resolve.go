package reldate

import (
	"time"
)

// Resolver resolves descriptions with a fixed clock and week convention.
// It is immutable and safe for concurrent use.
type Resolver struct {
	clock      Clock
	reference  *time.Time
	convention WeekConvention
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithReference anchors every resolution at ref instead of the clock.
func WithReference(ref time.Time) Option {
	return func(r *Resolver) {
		r.reference = &ref
	}
}

// WithClock sets the clock consulted for the default reference date.
func WithClock(clock Clock) Option {
	return func(r *Resolver) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithWeekConvention sets the week numbering used by week fields.
func WithWeekConvention(conv WeekConvention) Option {
	return func(r *Resolver) {
		r.convention = conv
	}
}

// NewResolver returns a Resolver using the real clock and ISO weeks unless
// configured otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{clock: RealClock{}, convention: ISOWeek}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Convention returns the week numbering of the resolver.
func (r *Resolver) Convention() WeekConvention {
	return r.convention
}

// Reference returns the date relative fields are applied to: the
// configured reference, or the clock's current time.
func (r *Resolver) Reference() time.Time {
	if r.reference != nil {
		return *r.reference
	}
	return r.clock.Now()
}

// Resolve resolves input against Reference.
func (r *Resolver) Resolve(input any) (time.Time, error) {
	return r.ResolveFrom(r.Reference(), input)
}

// ResolveFrom resolves input against ref, ignoring the configured reference.
func (r *Resolver) ResolveFrom(ref time.Time, input any) (time.Time, error) {
	d, err := Parse(input)
	if err != nil {
		return time.Time{}, err
	}
	return Apply(ref, d, r.convention), nil
}

// Parse normalizes and validates input.
func Parse(input any) (Description, error) {
	d, err := Normalize(input)
	if err != nil {
		return Description{}, err
	}
	if err := Validate(d); err != nil {
		return Description{}, err
	}
	return d, nil
}

// Resolve resolves input, a [year, month, day, week] sequence or a keyed
// record, to a date. Without WithReference the date is relative to the
// current time.
func Resolve(input any, opts ...Option) (time.Time, error) {
	return NewResolver(opts...).Resolve(input)
}
