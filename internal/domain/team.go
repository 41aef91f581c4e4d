package domain

import "time"

// Team statuses.
const (
	TeamStatusActive    = "ACTIVE"
	TeamStatusInactive  = "INACTIVE"
	TeamStatusWithdrawn = "WITHDRAWN"
)

// Team is a participating organisation. Each team belongs to one sports meet
// and one group; the group supplies every quota limit that applies to the
// team's athletes and registrations. OrgCode is the login identifier.
type Team struct {
	ID            int64
	SportsMeetID  int64
	GroupID       int64
	Name          string
	OrgCode       string
	TeamCode      string
	PasswordHash  string
	ContactPerson string
	ContactPhone  string
	Description   string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
