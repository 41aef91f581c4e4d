// Package seed loads a declarative YAML meet definition and applies it
// idempotently: existing rows are matched by natural key and left alone,
// missing ones are created.
package seed

import "time"

// SupportedAPIVersion is the only apiVersion the loader accepts.
const SupportedAPIVersion = "meetreg/v1"

// MeetKind is the expected kind field of a meet definition document.
const MeetKind = "MeetDefinition"

// MeetDoc is a full declarative meet definition.
type MeetDoc struct {
	APIVersion string      `yaml:"apiVersion"`
	Kind       string      `yaml:"kind"`
	Meet       MeetSpec    `yaml:"meet"`
	Events     []EventSpec `yaml:"events,omitempty"`
	Groups     []GroupSpec `yaml:"groups,omitempty"`
	Teams      []TeamSpec  `yaml:"teams,omitempty"`
}

// MeetSpec describes the sports meet itself. OrgCode is the natural key.
type MeetSpec struct {
	Name              string     `yaml:"name"`
	OrgCode           string     `yaml:"org_code"`
	MeetCode          string     `yaml:"meet_code,omitempty"`
	Description       string     `yaml:"description,omitempty"`
	Location          string     `yaml:"location,omitempty"`
	StartTime         *time.Time `yaml:"start_time,omitempty"`
	EndTime           *time.Time `yaml:"end_time,omitempty"`
	RegistrationStart *time.Time `yaml:"registration_start,omitempty"`
	RegistrationEnd   *time.Time `yaml:"registration_end,omitempty"`
}

// EventSpec describes one competition event, keyed by name.
type EventSpec struct {
	Name        string `yaml:"name"`
	EventType   string `yaml:"event_type"` // INDIVIDUAL, RELAY, or TEAM
	Gender      string `yaml:"gender,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// GroupSpec describes one group and its event mappings, keyed by name within
// the meet.
type GroupSpec struct {
	Name                    string           `yaml:"name"`
	Gender                  string           `yaml:"gender,omitempty"`
	Grade                   string           `yaml:"grade,omitempty"`
	MaxLeadersPerTeam       int              `yaml:"max_leaders_per_team"`
	MaxAthletesPerTeam      int              `yaml:"max_athletes_per_team"`
	MaxEventsPerAthlete     int              `yaml:"max_events_per_athlete"`
	MaxParticipantsPerEvent int              `yaml:"max_participants_per_event"`
	MaxRelaysPerTeam        int              `yaml:"max_relays_per_team,omitempty"`
	AllowMixedEvents        bool             `yaml:"allow_mixed_events,omitempty"`
	Events                  []GroupEventSpec `yaml:"events,omitempty"`
}

// GroupEventSpec maps a group to an event by event name.
type GroupEventSpec struct {
	Name      string `yaml:"name"`
	Mandatory bool   `yaml:"mandatory,omitempty"`
}

// TeamSpec describes one team, keyed by org code. Password, when set, is
// bcrypt-hashed on first creation; it never overwrites an existing hash.
type TeamSpec struct {
	Name          string `yaml:"name"`
	OrgCode       string `yaml:"org_code"`
	TeamCode      string `yaml:"team_code,omitempty"`
	Group         string `yaml:"group"`
	Password      string `yaml:"password,omitempty"`
	ContactPerson string `yaml:"contact_person,omitempty"`
	ContactPhone  string `yaml:"contact_phone,omitempty"`
}
