package seed

import (
	"context"
	"database/sql"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"meetreg/internal/db"
	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
)

// Result counts what one Apply run created. Rows matched by natural key are
// left untouched and do not appear here, so a second run over the same
// document reports all zeros.
type Result struct {
	MeetCreated     bool
	EventsCreated   int
	GroupsCreated   int
	MappingsCreated int
	TeamsCreated    int
}

// Applier writes a validated meet definition into the database. The whole
// document is applied in one write transaction.
type Applier struct {
	writeDB *sql.DB
	logger  *slog.Logger
}

func NewApplier(writeDB *sql.DB, logger *slog.Logger) *Applier {
	return &Applier{writeDB: writeDB, logger: logger}
}

// Apply reconciles the document against the database. The meet is matched by
// org code, events by name, groups by name within the meet, and teams by org
// code. Existing rows keep their current values; in particular a team's
// password hash is set only when the team is first created.
func (a *Applier) Apply(ctx context.Context, doc *MeetDoc) (*Result, error) {
	var res Result
	err := db.RunInTx(ctx, a.writeDB, func(tx *sql.Tx) error {
		meets := repository.NewMeetRepo(tx)
		events := repository.NewEventRepo(tx)
		groups := repository.NewGroupRepo(tx)
		teams := repository.NewTeamRepo(tx)

		meet, err := meets.GetByOrgCode(ctx, doc.Meet.OrgCode)
		if err != nil {
			if _, ok := err.(*domain.NotFoundError); !ok {
				return err
			}
			meet, err = meets.Create(ctx, meetFromSpec(&doc.Meet))
			if err != nil {
				return err
			}
			res.MeetCreated = true
		}

		eventIDs, err := a.applyEvents(ctx, events, doc.Events, &res)
		if err != nil {
			return err
		}
		groupIDs, err := a.applyGroups(ctx, groups, events, meet.ID, doc.Groups, eventIDs, &res)
		if err != nil {
			return err
		}
		return a.applyTeams(ctx, teams, meet.ID, doc.Teams, groupIDs, &res)
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("seed applied",
		slog.String("meet", doc.Meet.OrgCode),
		slog.Bool("meet_created", res.MeetCreated),
		slog.Int("events_created", res.EventsCreated),
		slog.Int("groups_created", res.GroupsCreated),
		slog.Int("mappings_created", res.MappingsCreated),
		slog.Int("teams_created", res.TeamsCreated))
	return &res, nil
}

func (a *Applier) applyEvents(ctx context.Context, events *repository.EventRepo, specs []EventSpec, res *Result) (map[string]int64, error) {
	existing, err := events.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(existing))
	for _, e := range existing {
		ids[e.Name] = e.ID
	}

	for _, spec := range specs {
		if _, ok := ids[spec.Name]; ok {
			continue
		}
		created, err := events.Create(ctx, &domain.Event{
			Name:        spec.Name,
			EventType:   spec.EventType,
			Gender:      spec.Gender,
			Description: spec.Description,
		})
		if err != nil {
			return nil, err
		}
		ids[spec.Name] = created.ID
		res.EventsCreated++
	}
	return ids, nil
}

func (a *Applier) applyGroups(ctx context.Context, groups *repository.GroupRepo, events *repository.EventRepo, meetID int64, specs []GroupSpec, eventIDs map[string]int64, res *Result) (map[string]int64, error) {
	existing, err := groups.List(ctx, meetID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(existing))
	for _, g := range existing {
		ids[g.Name] = g.ID
	}

	for _, spec := range specs {
		groupID, ok := ids[spec.Name]
		if !ok {
			created, err := groups.Create(ctx, &domain.Group{
				SportsMeetID:            meetID,
				Name:                    spec.Name,
				Gender:                  spec.Gender,
				Grade:                   spec.Grade,
				MaxLeadersPerTeam:       spec.MaxLeadersPerTeam,
				MaxAthletesPerTeam:      spec.MaxAthletesPerTeam,
				MaxEventsPerAthlete:     spec.MaxEventsPerAthlete,
				MaxParticipantsPerEvent: spec.MaxParticipantsPerEvent,
				MaxRelaysPerTeam:        spec.MaxRelaysPerTeam,
				AllowMixedEvents:        spec.AllowMixedEvents,
			})
			if err != nil {
				return nil, err
			}
			groupID = created.ID
			ids[spec.Name] = groupID
			res.GroupsCreated++
		}

		for _, ge := range spec.Events {
			eventID := eventIDs[ge.Name]
			_, err := events.GetMapping(ctx, groupID, eventID)
			if err == nil {
				continue
			}
			if _, ok := err.(*domain.NotFoundError); !ok {
				return nil, err
			}
			if _, err := events.CreateMapping(ctx, &domain.GroupEventMapping{
				GroupID:     groupID,
				EventID:     eventID,
				IsMandatory: ge.Mandatory,
			}); err != nil {
				return nil, err
			}
			res.MappingsCreated++
		}
	}
	return ids, nil
}

func (a *Applier) applyTeams(ctx context.Context, teams *repository.TeamRepo, meetID int64, specs []TeamSpec, groupIDs map[string]int64, res *Result) error {
	for _, spec := range specs {
		_, err := teams.GetByOrgCode(ctx, spec.OrgCode)
		if err == nil {
			continue
		}
		if _, ok := err.(*domain.NotFoundError); !ok {
			return err
		}

		var hash string
		if spec.Password != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(spec.Password), bcrypt.DefaultCost)
			if err != nil {
				return domain.ErrPersistence(err, "hash password for team %s", spec.OrgCode)
			}
			hash = string(h)
		}
		if _, err := teams.Create(ctx, &domain.Team{
			SportsMeetID:  meetID,
			GroupID:       groupIDs[spec.Group],
			Name:          spec.Name,
			OrgCode:       spec.OrgCode,
			TeamCode:      spec.TeamCode,
			PasswordHash:  hash,
			ContactPerson: spec.ContactPerson,
			ContactPhone:  spec.ContactPhone,
		}); err != nil {
			return err
		}
		res.TeamsCreated++
	}
	return nil
}

func meetFromSpec(spec *MeetSpec) *domain.SportsMeet {
	m := &domain.SportsMeet{
		Name:        spec.Name,
		OrgCode:     spec.OrgCode,
		MeetCode:    spec.MeetCode,
		Description: spec.Description,
		Location:    spec.Location,
	}
	if spec.StartTime != nil {
		m.StartTime = *spec.StartTime
	}
	if spec.EndTime != nil {
		m.EndTime = *spec.EndTime
	}
	if spec.RegistrationStart != nil {
		m.RegistrationStart = *spec.RegistrationStart
	}
	if spec.RegistrationEnd != nil {
		m.RegistrationEnd = *spec.RegistrationEnd
	}
	return m
}
