package service

import (
	"context"
	"fmt"

	"meetreg/internal/domain"
)

// SummaryService produces read-only reporting over confirmed registrations.
// It runs on the read pool and is not transactionally isolated from
// concurrent writes; a slightly stale count is acceptable for dashboards.
type SummaryService struct {
	catalog       domain.ReferenceCatalog
	groups        domain.GroupRepository
	athletes      domain.AthleteRepository
	registrations domain.RegistrationRepository
}

func NewSummaryService(catalog domain.ReferenceCatalog, groups domain.GroupRepository, athletes domain.AthleteRepository, registrations domain.RegistrationRepository) *SummaryService {
	return &SummaryService{catalog: catalog, groups: groups, athletes: athletes, registrations: registrations}
}

// Summary returns one record per (group, category) for the team: leaders,
// athletes, each eligible event, then the team-wide totals. Only CONFIRMED
// registrations contribute to actuals.
func (s *SummaryService) Summary(ctx context.Context, teamID int64) ([]domain.SummaryRecord, error) {
	team, err := s.catalog.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.GroupID == 0 {
		// A team without a group has nothing to report against.
		return []domain.SummaryRecord{}, nil
	}

	group, err := s.catalog.GetGroup(ctx, team.GroupID)
	if err != nil {
		return nil, err
	}

	var summary []domain.SummaryRecord
	if group.Active() {
		rows, err := s.groupRecords(ctx, teamID, group)
		if err != nil {
			return nil, err
		}
		summary = append(summary, rows...)
	}

	totals, err := s.totalRecords(ctx, teamID, group)
	if err != nil {
		return nil, err
	}
	return append(summary, totals...), nil
}

func (s *SummaryService) groupRecords(ctx context.Context, teamID int64, group *domain.Group) ([]domain.SummaryRecord, error) {
	var records []domain.SummaryRecord
	groupID := group.ID

	leaders, err := s.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
		TeamID: teamID, GroupID: groupID, Leaders: true,
	})
	if err != nil {
		return nil, err
	}
	rec := domain.NewSummaryRecord(group.Name+" leaders", domain.SummaryLeader, group.MaxLeadersPerTeam, leaders)
	rec.GroupID = &groupID
	rec.GroupName = group.Name
	records = append(records, rec)

	athletes, err := s.athletes.CountByTeamAndGroup(ctx, teamID, groupID)
	if err != nil {
		return nil, err
	}
	rec = domain.NewSummaryRecord(group.Name+" athletes", domain.SummaryAthlete, group.MaxAthletesPerTeam, athletes)
	rec.GroupID = &groupID
	rec.GroupName = group.Name
	records = append(records, rec)

	events, err := s.catalog.ListEligibleEvents(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range events {
		event := events[i]
		actual, err := s.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
			TeamID: teamID, GroupID: groupID, EventID: event.ID,
		})
		if err != nil {
			return nil, err
		}
		rec := domain.NewSummaryRecord(
			fmt.Sprintf("%s %s", group.Name, event.Name),
			domain.SummaryEvent, group.MaxParticipantsPerEvent, actual)
		rec.GroupID = &groupID
		rec.GroupName = group.Name
		rec.EventID = &event.ID
		rec.EventName = event.Name
		records = append(records, rec)
	}

	return records, nil
}

func (s *SummaryService) totalRecords(ctx context.Context, teamID int64, group *domain.Group) ([]domain.SummaryRecord, error) {
	totalAthletes, err := s.athletes.CountByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	totalLeaders, err := s.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
		TeamID: teamID, Leaders: true,
	})
	if err != nil {
		return nil, err
	}

	return []domain.SummaryRecord{
		domain.NewSummaryRecord("Total athletes", domain.SummaryTotal, group.MaxAthletesPerTeam, totalAthletes),
		domain.NewSummaryRecord("Total leaders", domain.SummaryTotal, group.MaxLeadersPerTeam, totalLeaders),
	}, nil
}

// EventStatistics reports, for one event, the team's confirmed registration
// count in every active group eligible for that event.
func (s *SummaryService) EventStatistics(ctx context.Context, teamID, eventID int64) (*domain.Event, []domain.EventStatistic, error) {
	event, err := s.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	team, err := s.catalog.GetTeam(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	groups, err := s.groups.List(ctx, team.SportsMeetID)
	if err != nil {
		return nil, nil, err
	}

	stats := make([]domain.EventStatistic, 0, len(groups))
	for _, group := range groups {
		if !group.Active() {
			continue
		}
		if _, err := s.catalog.GetMapping(ctx, group.ID, eventID); err != nil {
			if _, ok := err.(*domain.NotFoundError); ok {
				continue
			}
			return nil, nil, err
		}

		count, err := s.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
			TeamID: teamID, GroupID: group.ID, EventID: eventID,
		})
		if err != nil {
			return nil, nil, err
		}
		stats = append(stats, domain.EventStatistic{
			GroupID:           group.ID,
			GroupName:         group.Name,
			RegistrationCount: count,
			MaxParticipants:   group.MaxParticipantsPerEvent,
			IsOverLimit:       group.MaxParticipantsPerEvent > 0 && count > group.MaxParticipantsPerEvent,
		})
	}
	return event, stats, nil
}

// Overview aggregates the team's registrations by status and event type.
func (s *SummaryService) Overview(ctx context.Context, teamID int64) (*domain.Overview, error) {
	if _, err := s.catalog.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	byStatus, err := s.registrations.StatusCounts(ctx, teamID)
	if err != nil {
		return nil, err
	}
	byType, err := s.registrations.EventTypeCounts(ctx, teamID)
	if err != nil {
		return nil, err
	}
	totalAthletes, err := s.athletes.CountByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &domain.Overview{
		TotalAthletes:      totalAthletes,
		TotalRegistrations: total,
		ByStatus:           byStatus,
		ByEventType:        byType,
	}, nil
}
