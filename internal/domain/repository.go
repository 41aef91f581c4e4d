package domain

import "context"

// MeetRepository provides read access to sports meets plus the status flip
// performed by the registration-window job.
type MeetRepository interface {
	GetByID(ctx context.Context, id int64) (*SportsMeet, error)
	GetByOrgCode(ctx context.Context, orgCode string) (*SportsMeet, error)
	ListActive(ctx context.Context) ([]SportsMeet, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

// TeamRepository provides read access to teams and credential updates.
type TeamRepository interface {
	GetByID(ctx context.Context, id int64) (*Team, error)
	GetByOrgCode(ctx context.Context, orgCode string) (*Team, error)
	List(ctx context.Context, meetID int64) ([]Team, error)
	Create(ctx context.Context, t *Team) (*Team, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
}

// GroupRepository provides read access to groups.
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*Group, error)
	List(ctx context.Context, meetID int64) ([]Group, error)
	Create(ctx context.Context, g *Group) (*Group, error)
}

// EventRepository provides read access to events and the group↔event
// eligibility mapping.
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	ListByGroup(ctx context.Context, groupID int64) ([]Event, error)
	ListByGroupMandatory(ctx context.Context, groupID int64, mandatory bool) ([]Event, error)
	GetMapping(ctx context.Context, groupID, eventID int64) (*GroupEventMapping, error)
	Create(ctx context.Context, e *Event) (*Event, error)
	CreateMapping(ctx context.Context, m *GroupEventMapping) (*GroupEventMapping, error)
}

// AthleteRepository provides CRUD operations and quota counts for athletes.
type AthleteRepository interface {
	GetByID(ctx context.Context, id int64) (*Athlete, error)
	GetByTeamAndIDNumber(ctx context.Context, teamID int64, idNumber string) (*Athlete, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Athlete, error)
	Create(ctx context.Context, a *Athlete) (*Athlete, error)
	Update(ctx context.Context, a *Athlete) (*Athlete, error)
	Delete(ctx context.Context, id int64) error
	CountByTeamAndGroup(ctx context.Context, teamID, groupID int64) (int, error)
	CountByTeam(ctx context.Context, teamID int64) (int, error)
}

// RegistrationRepository provides access to registration rows. ListConfirmed
// and CountConfirmed see only CONFIRMED rows; PENDING and CANCELLED rows
// never count toward quotas.
type RegistrationRepository interface {
	GetByID(ctx context.Context, id int64) (*Registration, error)
	ListConfirmed(ctx context.Context, f RegistrationFilter) ([]Registration, error)
	CountConfirmed(ctx context.Context, f RegistrationFilter) (int, error)
	StatusCounts(ctx context.Context, teamID int64) (map[string]int, error)
	EventTypeCounts(ctx context.Context, teamID int64) (map[string]int, error)
	Insert(ctx context.Context, r *Registration) (*Registration, error)
	Delete(ctx context.Context, id int64) error
}

// ReferenceCatalog is the read-only collaborator the engine consumes for
// reference data (teams, groups, events, eligibility mappings). Lookups by a
// missing id return a NotFoundError.
type ReferenceCatalog interface {
	GetMeet(ctx context.Context, id int64) (*SportsMeet, error)
	GetTeam(ctx context.Context, id int64) (*Team, error)
	GetGroup(ctx context.Context, id int64) (*Group, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	GetMapping(ctx context.Context, groupID, eventID int64) (*GroupEventMapping, error)
	ListEligibleEvents(ctx context.Context, groupID int64) ([]Event, error)
}
