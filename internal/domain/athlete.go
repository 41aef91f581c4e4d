package domain

import "time"

// Athlete belongs to exactly one team and one group. (TeamID, IDNumber) is
// unique when IDNumber is present. Group assignment is effectively immutable
// once the athlete holds confirmed registrations; changing it requires the
// caller to withdraw those registrations first.
type Athlete struct {
	ID           int64
	TeamID       int64
	GroupID      int64
	Name         string
	IDNumber     string
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
