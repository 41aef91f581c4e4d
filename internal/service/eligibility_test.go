package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
)

func TestClassify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	checker := NewEligibilityChecker(
		repository.NewGroupRepo(env.readDB),
		repository.NewEventRepo(env.readDB))

	optional := env.createEvent(t, "100m", env.group.ID)
	unmapped := env.createEvent(t, "Hammer Throw")

	mandatory, err := repository.NewEventRepo(env.writeDB).Create(ctx, &domain.Event{
		Name: "Opening March", EventType: domain.EventTypeTeam,
	})
	require.NoError(t, err)
	_, err = repository.NewEventRepo(env.writeDB).CreateMapping(ctx, &domain.GroupEventMapping{
		GroupID: env.group.ID, EventID: mandatory.ID, IsMandatory: true,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		eventID int64
		want    domain.Eligibility
	}{
		{"optional mapping", optional.ID, domain.EligibilityOptional},
		{"mandatory mapping", mandatory.ID, domain.EligibilityMandatory},
		{"no mapping", unmapped.ID, domain.EligibilityNotEligible},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checker.Classify(ctx, env.group.ID, tc.eventID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyUnknownGroupOrEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	checker := NewEligibilityChecker(
		repository.NewGroupRepo(env.readDB),
		repository.NewEventRepo(env.readDB))

	event := env.createEvent(t, "100m", env.group.ID)

	var nerr *domain.NotFoundError
	_, err := checker.Classify(ctx, 9999, event.ID)
	assert.ErrorAs(t, err, &nerr, "unknown group is an error, not NOT_ELIGIBLE")

	_, err = checker.Classify(ctx, env.group.ID, 9999)
	assert.ErrorAs(t, err, &nerr, "unknown event is an error, not NOT_ELIGIBLE")
}

func TestIsEligible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	checker := NewEligibilityChecker(
		repository.NewGroupRepo(env.readDB),
		repository.NewEventRepo(env.readDB))

	mapped := env.createEvent(t, "100m", env.group.ID)
	unmapped := env.createEvent(t, "Hammer Throw")

	ok, err := checker.IsEligible(ctx, env.group.ID, mapped.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.IsEligible(ctx, env.group.ID, unmapped.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
