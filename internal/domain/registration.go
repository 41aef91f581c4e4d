package domain

import "time"

// Registration statuses. Only CONFIRMED rows count toward any quota or
// capacity calculation.
const (
	RegistrationConfirmed = "CONFIRMED"
	RegistrationPending   = "PENDING"
	RegistrationCancelled = "CANCELLED"
)

// Registration assigns an athlete (or, for leader/relay rows, the team
// itself) to an event. AthleteID is nil only for team-level rows that are not
// tied to one individual. Athlete-level rows are never updated in place: the
// whole set is replaced on every update so the stored set always matches
// exactly what was validated.
type Registration struct {
	ID               int64
	TeamID           int64
	AthleteID        *int64
	GroupID          int64
	EventID          int64
	Status           string
	RegistrationTime time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Leader reports whether this is a team-level row with no individual athlete.
func (r *Registration) Leader() bool { return r.AthleteID == nil }

// RegistrationFilter narrows confirmed-registration queries. Zero values mean
// "no constraint"; Leaders selects only rows with a NULL athlete.
type RegistrationFilter struct {
	TeamID    int64
	GroupID   int64
	EventID   int64
	AthleteID int64
	Leaders   bool
}

// ReplaceResult reports the outcome of a wholesale registration replace.
type ReplaceResult struct {
	EventIDs []int64
	Deleted  int
	Inserted int
	Kept     int
}
