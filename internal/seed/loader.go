package seed

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a meet definition from a YAML file. Unknown
// fields are rejected so a typo in a limit name cannot silently disable it.
func Load(path string) (*MeetDoc, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user-specified seed files
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc MeetDoc
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := validate(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

func validate(doc *MeetDoc) error {
	if doc.APIVersion != SupportedAPIVersion {
		return fmt.Errorf("unsupported apiVersion %q (expected %q)", doc.APIVersion, SupportedAPIVersion)
	}
	if doc.Kind != MeetKind {
		return fmt.Errorf("unsupported kind %q (expected %q)", doc.Kind, MeetKind)
	}
	if doc.Meet.Name == "" || doc.Meet.OrgCode == "" {
		return fmt.Errorf("meet.name and meet.org_code are required")
	}

	eventNames := make(map[string]bool, len(doc.Events))
	for i, e := range doc.Events {
		if e.Name == "" {
			return fmt.Errorf("events[%d]: name is required", i)
		}
		if eventNames[e.Name] {
			return fmt.Errorf("duplicate event %q", e.Name)
		}
		eventNames[e.Name] = true
		switch e.EventType {
		case "INDIVIDUAL", "RELAY", "TEAM":
		default:
			return fmt.Errorf("event %q: unknown event_type %q", e.Name, e.EventType)
		}
	}

	groupNames := make(map[string]bool, len(doc.Groups))
	for i, g := range doc.Groups {
		if g.Name == "" {
			return fmt.Errorf("groups[%d]: name is required", i)
		}
		if groupNames[g.Name] {
			return fmt.Errorf("duplicate group %q", g.Name)
		}
		groupNames[g.Name] = true
		if g.MaxLeadersPerTeam < 0 || g.MaxAthletesPerTeam < 0 ||
			g.MaxEventsPerAthlete < 0 || g.MaxParticipantsPerEvent < 0 {
			return fmt.Errorf("group %q: limits must be non-negative", g.Name)
		}
		for _, ge := range g.Events {
			if !eventNames[ge.Name] {
				return fmt.Errorf("group %q references unknown event %q", g.Name, ge.Name)
			}
		}
	}

	teamCodes := make(map[string]bool, len(doc.Teams))
	for i, tm := range doc.Teams {
		if tm.Name == "" || tm.OrgCode == "" {
			return fmt.Errorf("teams[%d]: name and org_code are required", i)
		}
		if teamCodes[tm.OrgCode] {
			return fmt.Errorf("duplicate team org_code %q", tm.OrgCode)
		}
		teamCodes[tm.OrgCode] = true
		if tm.Group != "" && !groupNames[tm.Group] {
			return fmt.Errorf("team %q references unknown group %q", tm.OrgCode, tm.Group)
		}
	}

	return nil
}
