package domain

import "time"

// Event types.
const (
	EventTypeIndividual = "INDIVIDUAL"
	EventTypeRelay      = "RELAY"
	EventTypeTeam       = "TEAM"
)

// Event is a competition item. It carries no eligibility of its own:
// a group may enter an event only through an explicit GroupEventMapping row.
type Event struct {
	ID          int64
	Name        string
	EventType   string
	Gender      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupEventMapping is the many-to-many edge recording which events a group
// may enter. A (group, event) pair appears at most once.
type GroupEventMapping struct {
	ID          int64
	GroupID     int64
	EventID     int64
	IsMandatory bool
	CreatedAt   time.Time
}

// Eligibility classification of an event for a group.
type Eligibility string

const (
	EligibilityMandatory   Eligibility = "MANDATORY"
	EligibilityOptional    Eligibility = "OPTIONAL"
	EligibilityNotEligible Eligibility = "NOT_ELIGIBLE"
)
