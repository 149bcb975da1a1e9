package engine

import "time"

// Occurrence is one resolved rule, the unit of the generated feed.
type Occurrence struct {
	// UID is a deterministic identifier, stable across refreshes.
	UID string

	// Rule is the name of the rule that produced the occurrence.
	Rule string

	// Contact is the birthday owner for birthday-anchored rules, empty otherwise.
	Contact string

	// Reference is the date the rule was resolved against: the sync time,
	// or the contact's next birthday.
	Reference time.Time

	// Date is the resolved date.
	Date time.Time
}

// contact is a vCard reduced to what birthday-anchored rules need.
type contact struct {
	Name      string
	BirthDate time.Time
	YearKnown bool
}
