package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
)

func (e *testEnv) quotaEvaluator() *QuotaEvaluator {
	return NewQuotaEvaluator(
		repository.NewGroupRepo(e.readDB),
		repository.NewAthleteRepo(e.readDB),
		repository.NewRegistrationRepo(e.readDB))
}

func TestCheckAthleteCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	group := env.createGroup(t, "Small", 3, 0)
	// Tighten the athlete cap by hand: createGroup seeds 50.
	_, err := env.writeDB.ExecContext(ctx,
		`UPDATE groups SET max_athletes_per_team = 2 WHERE id = ?`, group.ID)
	require.NoError(t, err)

	team := env.createTeam(t, "Team Two", "ORG2", group.ID)
	env.createAthlete(t, team.ID, group.ID, "Ada")
	env.createAthlete(t, team.ID, group.ID, "Ben")

	quota := env.quotaEvaluator()
	err = quota.CheckAthleteCount(ctx, team.ID, group.ID, 1)
	var qerr *domain.QuotaExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, domain.QuotaAthletesPerTeam, qerr.Dimension)
	assert.Equal(t, 2, qerr.Current)
	assert.Equal(t, 2, qerr.Limit)

	// Zero delta against a full roster is still fine.
	assert.NoError(t, quota.CheckAthleteCount(ctx, team.ID, group.ID, 0))
}

func TestCheckLeaderCountOnlyCountsLeaderRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quota := env.quotaEvaluator()

	event := env.createEvent(t, "100m", env.group.ID)
	athlete := env.createAthlete(t, env.team.ID, env.group.ID, "Ada")

	// An athlete registration must not consume a leader slot.
	_, err := repository.NewRegistrationRepo(env.writeDB).Insert(ctx, &domain.Registration{
		TeamID: env.team.ID, AthleteID: &athlete.ID, GroupID: env.group.ID, EventID: event.ID,
	})
	require.NoError(t, err)
	require.NoError(t, quota.CheckLeaderCount(ctx, env.team.ID, env.group.ID, 2))

	for i := 0; i < 2; i++ {
		_, err := repository.NewRegistrationRepo(env.writeDB).Insert(ctx, &domain.Registration{
			TeamID: env.team.ID, GroupID: env.group.ID, EventID: event.ID,
		})
		require.NoError(t, err)
	}

	err = quota.CheckLeaderCount(ctx, env.team.ID, env.group.ID, 1)
	var qerr *domain.QuotaExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, domain.QuotaLeadersPerTeam, qerr.Dimension)
	assert.Equal(t, 2, qerr.Current)
}

func TestCheckEventsPerAthleteUsesProposedSetSize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quota := env.quotaEvaluator()

	athlete := env.createAthlete(t, env.team.ID, env.group.ID, "Ada")

	// Limit is 3; the check looks only at the proposed set, never the
	// currently held one.
	assert.NoError(t, quota.CheckEventsPerAthlete(ctx, athlete.ID, []int64{1, 2, 3}))

	err := quota.CheckEventsPerAthlete(ctx, athlete.ID, []int64{1, 2, 3, 4})
	var qerr *domain.QuotaExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, domain.QuotaEventsPerAthlete, qerr.Dimension)
}

func TestCheckEventCapacitySelfExclusion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quota := env.quotaEvaluator()

	group := env.createGroup(t, "Capped", 3, 1)
	team := env.createTeam(t, "Team Two", "ORG2", group.ID)
	holder := env.createAthlete(t, team.ID, group.ID, "Ada")
	other := env.createAthlete(t, team.ID, group.ID, "Ben")
	event := env.createEvent(t, "100m", group.ID)

	_, err := repository.NewRegistrationRepo(env.writeDB).Insert(ctx, &domain.Registration{
		TeamID: team.ID, AthleteID: &holder.ID, GroupID: group.ID, EventID: event.ID,
	})
	require.NoError(t, err)

	// The holder's own slot does not count against them.
	assert.NoError(t, quota.CheckEventCapacity(ctx, event.ID, group.ID, holder.ID, 1))

	err = quota.CheckEventCapacity(ctx, event.ID, group.ID, other.ID, 1)
	var qerr *domain.QuotaExceededError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, domain.QuotaEventCapacity, qerr.Dimension)
	assert.Equal(t, event.ID, qerr.EventID)
	assert.Equal(t, 1, qerr.Current)
	assert.Equal(t, 1, qerr.Limit)
}

func TestCheckEventCapacityZeroMeansUnlimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quota := env.quotaEvaluator()

	event := env.createEvent(t, "100m", env.group.ID)
	for _, name := range []string{"Ada", "Ben", "Cleo"} {
		a := env.createAthlete(t, env.team.ID, env.group.ID, name)
		_, err := repository.NewRegistrationRepo(env.writeDB).Insert(ctx, &domain.Registration{
			TeamID: env.team.ID, AthleteID: &a.ID, GroupID: env.group.ID, EventID: event.ID,
		})
		require.NoError(t, err)
	}

	assert.NoError(t, quota.CheckEventCapacity(ctx, event.ID, env.group.ID, 0, 1))
}
