package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"meetreg/internal/catalog"
	internaldb "meetreg/internal/db"
	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
)

// testEnv wires the full engine against a throwaway SQLite store.
type testEnv struct {
	writeDB *sql.DB
	readDB  *sql.DB
	repos   TxReposFactory
	catalog *catalog.Catalog

	meet  *domain.SportsMeet
	group *domain.Group
	team  *domain.Team
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	ctx := context.Background()

	meet, err := repository.NewMeetRepo(writeDB).Create(ctx, &domain.SportsMeet{
		Name:            "City Games",
		OrgCode:         "CITY",
		RegistrationEnd: time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	group, err := repository.NewGroupRepo(writeDB).Create(ctx, &domain.Group{
		SportsMeetID:        meet.ID,
		Name:                "Junior A",
		MaxLeadersPerTeam:   2,
		MaxAthletesPerTeam:  50,
		MaxEventsPerAthlete: 3,
	})
	require.NoError(t, err)

	team, err := repository.NewTeamRepo(writeDB).Create(ctx, &domain.Team{
		SportsMeetID: meet.ID,
		GroupID:      group.ID,
		Name:         "Team One",
		OrgCode:      "ORG1",
	})
	require.NoError(t, err)

	env := &testEnv{
		writeDB: writeDB,
		readDB:  readDB,
		meet:    meet,
		group:   group,
		team:    team,
		repos: func(tx *sql.Tx) TxRepos {
			return TxRepos{
				Meets:         repository.NewMeetRepo(tx),
				Teams:         repository.NewTeamRepo(tx),
				Groups:        repository.NewGroupRepo(tx),
				Events:        repository.NewEventRepo(tx),
				Athletes:      repository.NewAthleteRepo(tx),
				Registrations: repository.NewRegistrationRepo(tx),
			}
		},
	}
	env.catalog = catalog.New(
		repository.NewMeetRepo(writeDB),
		repository.NewTeamRepo(writeDB),
		repository.NewGroupRepo(writeDB),
		repository.NewEventRepo(writeDB),
	)
	return env
}

func (e *testEnv) registrationService(t *testing.T) *RegistrationService {
	t.Helper()
	return NewRegistrationService(e.writeDB, e.repos,
		repository.NewAthleteRepo(e.writeDB),
		repository.NewRegistrationRepo(e.writeDB),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (e *testEnv) athleteService(t *testing.T) *AthleteService {
	t.Helper()
	return NewAthleteService(e.writeDB, e.repos,
		repository.NewAthleteRepo(e.writeDB),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (e *testEnv) summaryService(t *testing.T) *SummaryService {
	t.Helper()
	return NewSummaryService(e.catalog,
		repository.NewGroupRepo(e.writeDB),
		repository.NewAthleteRepo(e.writeDB),
		repository.NewRegistrationRepo(e.writeDB))
}

// createGroup adds another group to the meet with the given limits.
func (e *testEnv) createGroup(t *testing.T, name string, maxEventsPerAthlete, maxParticipantsPerEvent int) *domain.Group {
	t.Helper()
	g, err := repository.NewGroupRepo(e.writeDB).Create(context.Background(), &domain.Group{
		SportsMeetID:            e.meet.ID,
		Name:                    name,
		MaxLeadersPerTeam:       2,
		MaxAthletesPerTeam:      50,
		MaxEventsPerAthlete:     maxEventsPerAthlete,
		MaxParticipantsPerEvent: maxParticipantsPerEvent,
	})
	require.NoError(t, err)
	return g
}

func (e *testEnv) createTeam(t *testing.T, name, orgCode string, groupID int64) *domain.Team {
	t.Helper()
	team, err := repository.NewTeamRepo(e.writeDB).Create(context.Background(), &domain.Team{
		SportsMeetID: e.meet.ID,
		GroupID:      groupID,
		Name:         name,
		OrgCode:      orgCode,
	})
	require.NoError(t, err)
	return team
}

func (e *testEnv) createAthlete(t *testing.T, teamID, groupID int64, name string) *domain.Athlete {
	t.Helper()
	a, err := repository.NewAthleteRepo(e.writeDB).Create(context.Background(), &domain.Athlete{
		TeamID: teamID, GroupID: groupID, Name: name,
	})
	require.NoError(t, err)
	return a
}

// createEvent creates an event, mapping it to the given groups.
func (e *testEnv) createEvent(t *testing.T, name string, groupIDs ...int64) *domain.Event {
	t.Helper()
	repo := repository.NewEventRepo(e.writeDB)
	event, err := repo.Create(context.Background(), &domain.Event{
		Name: name, EventType: domain.EventTypeIndividual,
	})
	require.NoError(t, err)
	for _, gid := range groupIDs {
		_, err := repo.CreateMapping(context.Background(), &domain.GroupEventMapping{
			GroupID: gid, EventID: event.ID,
		})
		require.NoError(t, err)
	}
	return event
}

func (e *testEnv) confirmedEventIDs(t *testing.T, teamID, athleteID int64) []int64 {
	t.Helper()
	regs, err := repository.NewRegistrationRepo(e.readDB).ListConfirmed(context.Background(),
		domain.RegistrationFilter{TeamID: teamID, AthleteID: athleteID})
	require.NoError(t, err)
	ids := make([]int64, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.EventID)
	}
	return ids
}
