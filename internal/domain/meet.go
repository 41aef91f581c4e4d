package domain

import "time"

// Sports-meet statuses.
const (
	MeetStatusActive = "ACTIVE"
	MeetStatusClosed = "CLOSED"
)

// SportsMeet is the top-level competition a team registers into. Registration
// writes are only accepted while the meet is ACTIVE and within its
// registration window.
type SportsMeet struct {
	ID                int64
	Name              string
	OrgCode           string
	MeetCode          string
	Description       string
	Location          string
	StartTime         time.Time
	EndTime           time.Time
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RegistrationOpen reports whether the meet accepts registration writes at t.
func (m *SportsMeet) RegistrationOpen(t time.Time) bool {
	if m.Status != MeetStatusActive {
		return false
	}
	if !m.RegistrationStart.IsZero() && t.Before(m.RegistrationStart) {
		return false
	}
	if !m.RegistrationEnd.IsZero() && t.After(m.RegistrationEnd) {
		return false
	}
	return true
}
