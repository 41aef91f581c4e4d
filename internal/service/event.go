package service

import (
	"context"

	"meetreg/internal/domain"
)

// EventService serves event reference reads: the full catalog and the
// per-group eligible/mandatory/optional views.
type EventService struct {
	catalog domain.ReferenceCatalog
	events  domain.EventRepository
	groups  domain.GroupRepository
}

func NewEventService(catalog domain.ReferenceCatalog, events domain.EventRepository, groups domain.GroupRepository) *EventService {
	return &EventService{catalog: catalog, events: events, groups: groups}
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, eventID int64) (*domain.Event, error) {
	return s.catalog.GetEvent(ctx, eventID)
}

// ListEligible returns the events a group may enter, ascending by event id.
func (s *EventService) ListEligible(ctx context.Context, groupID int64) ([]domain.Event, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, notFoundAs(err, "group %d not found", groupID)
	}
	return s.catalog.ListEligibleEvents(ctx, groupID)
}

// ListByKind returns a group's mandatory or optional events.
func (s *EventService) ListByKind(ctx context.Context, groupID int64, mandatory bool) ([]domain.Event, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, notFoundAs(err, "group %d not found", groupID)
	}
	return s.events.ListByGroupMandatory(ctx, groupID, mandatory)
}

// GroupService serves group reference reads.
type GroupService struct {
	catalog domain.ReferenceCatalog
	groups  domain.GroupRepository
	meets   domain.MeetRepository
}

func NewGroupService(catalog domain.ReferenceCatalog, groups domain.GroupRepository, meets domain.MeetRepository) *GroupService {
	return &GroupService{catalog: catalog, groups: groups, meets: meets}
}

// Get returns one group.
func (s *GroupService) Get(ctx context.Context, groupID int64) (*domain.Group, error) {
	return s.catalog.GetGroup(ctx, groupID)
}

// ListForMeet returns all groups of a meet.
func (s *GroupService) ListForMeet(ctx context.Context, meetID int64) ([]domain.Group, error) {
	if _, err := s.meets.GetByID(ctx, meetID); err != nil {
		return nil, notFoundAs(err, "sports meet %d not found", meetID)
	}
	return s.groups.List(ctx, meetID)
}

// ListForTeam returns the groups of the meet the team is entered in.
func (s *GroupService) ListForTeam(ctx context.Context, teamID int64) ([]domain.Group, error) {
	team, err := s.catalog.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return s.groups.List(ctx, team.SportsMeetID)
}
