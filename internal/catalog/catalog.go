// Package catalog provides read access to reference data: meets, teams,
// groups, events, and the group↔event eligibility mapping. Reference records
// rarely change once registration opens, so lookups go through a short-TTL
// in-process cache. The catalog carries no business logic.
package catalog

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"meetreg/internal/domain"
)

const (
	defaultTTL      = 30 * time.Second
	cleanupInterval = 5 * time.Minute
)

// Catalog implements domain.ReferenceCatalog over the read-pool repositories.
type Catalog struct {
	meets  domain.MeetRepository
	teams  domain.TeamRepository
	groups domain.GroupRepository
	events domain.EventRepository
	cache  *gocache.Cache
}

// New creates a catalog with the default cache TTL.
func New(meets domain.MeetRepository, teams domain.TeamRepository, groups domain.GroupRepository, events domain.EventRepository) *Catalog {
	return &Catalog{
		meets:  meets,
		teams:  teams,
		groups: groups,
		events: events,
		cache:  gocache.New(defaultTTL, cleanupInterval),
	}
}

var _ domain.ReferenceCatalog = (*Catalog)(nil)

func (c *Catalog) GetMeet(ctx context.Context, id int64) (*domain.SportsMeet, error) {
	key := fmt.Sprintf("meet:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*domain.SportsMeet), nil
	}
	m, err := c.meets.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "sports meet %d not found", id)
	}
	c.cache.SetDefault(key, m)
	return m, nil
}

func (c *Catalog) GetTeam(ctx context.Context, id int64) (*domain.Team, error) {
	key := fmt.Sprintf("team:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*domain.Team), nil
	}
	t, err := c.teams.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "team %d not found", id)
	}
	c.cache.SetDefault(key, t)
	return t, nil
}

func (c *Catalog) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	key := fmt.Sprintf("group:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*domain.Group), nil
	}
	g, err := c.groups.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "group %d not found", id)
	}
	c.cache.SetDefault(key, g)
	return g, nil
}

func (c *Catalog) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	key := fmt.Sprintf("event:%d", id)
	if v, ok := c.cache.Get(key); ok {
		return v.(*domain.Event), nil
	}
	e, err := c.events.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "event %d not found", id)
	}
	c.cache.SetDefault(key, e)
	return e, nil
}

// GetMapping returns the eligibility edge for (group, event), or NotFoundError
// when the pair is not mapped. Mapping rows are not cached: they are the
// authority for eligibility decisions and the replacer reads them inside its
// transaction.
func (c *Catalog) GetMapping(ctx context.Context, groupID, eventID int64) (*domain.GroupEventMapping, error) {
	return c.events.GetMapping(ctx, groupID, eventID)
}

func (c *Catalog) ListEligibleEvents(ctx context.Context, groupID int64) ([]domain.Event, error) {
	return c.events.ListByGroup(ctx, groupID)
}

// Flush drops all cached reference records, forcing the next lookups back to
// the store. Needed after reference data changes behind the catalog's back;
// the server itself never needs it because seeding runs before the catalog is
// built.
func (c *Catalog) Flush() {
	c.cache.Flush()
}

func wrapNotFound(err error, format string, args ...interface{}) error {
	if _, ok := err.(*domain.NotFoundError); ok {
		return domain.ErrNotFound(format, args...)
	}
	return err
}
