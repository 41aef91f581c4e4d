package domain

import "time"

// Group statuses.
const (
	GroupStatusActive   = "ACTIVE"
	GroupStatusInactive = "INACTIVE"
)

// Group is the rule-bearing competition cohort (e.g. a grade+gender bracket).
// It owns every quota limit the engine enforces. All limit fields are
// non-negative; MaxParticipantsPerEvent uses 0 as an "unlimited" sentinel,
// never as a zero-capacity rule.
type Group struct {
	ID                      int64
	SportsMeetID            int64
	Name                    string
	Gender                  string
	Grade                   string
	MaxLeadersPerTeam       int
	MaxAthletesPerTeam      int
	MaxEventsPerAthlete     int
	MaxParticipantsPerEvent int
	MaxRelaysPerTeam        int
	AllowMixedEvents        bool
	Status                  string
	Description             string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Active reports whether the group participates in quota aggregation.
func (g *Group) Active() bool { return g.Status == GroupStatusActive }

// EventCapacityUnlimited reports whether the per-event participant cap is
// disabled for this group (the 0 sentinel).
func (g *Group) EventCapacityUnlimited() bool { return g.MaxParticipantsPerEvent == 0 }
