package catalog

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "meetreg/internal/db"
	"meetreg/internal/db/repository"
	"meetreg/internal/domain"
)

func setupCatalog(t *testing.T) (*Catalog, *domain.Group, *domain.Event) {
	t.Helper()
	writeDB, readDB := internaldb.OpenTestSQLite(t)
	ctx := context.Background()

	meet, err := repository.NewMeetRepo(writeDB).Create(ctx, &domain.SportsMeet{Name: "m", OrgCode: "M"})
	require.NoError(t, err)
	group, err := repository.NewGroupRepo(writeDB).Create(ctx, &domain.Group{SportsMeetID: meet.ID, Name: "g"})
	require.NoError(t, err)
	eventRepo := repository.NewEventRepo(writeDB)
	event, err := eventRepo.Create(ctx, &domain.Event{Name: "e", EventType: domain.EventTypeIndividual})
	require.NoError(t, err)
	_, err = eventRepo.CreateMapping(ctx, &domain.GroupEventMapping{GroupID: group.ID, EventID: event.ID, IsMandatory: true})
	require.NoError(t, err)

	cat := New(
		repository.NewMeetRepo(readDB),
		repository.NewTeamRepo(readDB),
		repository.NewGroupRepo(readDB),
		repository.NewEventRepo(readDB),
	)
	return cat, group, event
}

func TestCatalog_GetGroup_CachesResult(t *testing.T) {
	cat, group, _ := setupCatalog(t)
	ctx := context.Background()

	g1, err := cat.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	g2, err := cat.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Same(t, g1, g2)
}

func TestCatalog_GetGroup_NotFound(t *testing.T) {
	cat, _, _ := setupCatalog(t)

	_, err := cat.GetGroup(context.Background(), 404)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCatalog_GetMapping(t *testing.T) {
	cat, group, event := setupCatalog(t)
	ctx := context.Background()

	m, err := cat.GetMapping(ctx, group.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, m.IsMandatory)

	_, err = cat.GetMapping(ctx, group.ID, event.ID+1)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCatalog_Flush_DropsCachedEntries(t *testing.T) {
	cat, group, _ := setupCatalog(t)
	ctx := context.Background()

	g1, err := cat.GetGroup(ctx, group.ID)
	require.NoError(t, err)

	cat.Flush()

	g2, err := cat.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.NotSame(t, g1, g2)
	assert.Equal(t, g1.ID, g2.ID)
}

func TestCatalog_ListEligibleEvents(t *testing.T) {
	cat, group, event := setupCatalog(t)

	events, err := cat.ListEligibleEvents(context.Background(), group.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
}
