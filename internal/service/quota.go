package service

import (
	"context"

	"meetreg/internal/domain"
)

// QuotaEvaluator compares current committed state plus a proposed delta
// against the owning group's limits. Every check is a pure function of the
// store; the caller decides which transaction the underlying repositories are
// bound to.
//
// Note the limit semantics: MaxParticipantsPerEvent uses 0 as an "unlimited"
// sentinel, so a zero limit never rejects anything. The other limits treat 0
// as a real zero.
type QuotaEvaluator struct {
	groups        domain.GroupRepository
	athletes      domain.AthleteRepository
	registrations domain.RegistrationRepository
}

func NewQuotaEvaluator(groups domain.GroupRepository, athletes domain.AthleteRepository, registrations domain.RegistrationRepository) *QuotaEvaluator {
	return &QuotaEvaluator{groups: groups, athletes: athletes, registrations: registrations}
}

// CheckAthleteCount verifies the athlete count for (team, group) plus delta
// stays within MaxAthletesPerTeam.
func (q *QuotaEvaluator) CheckAthleteCount(ctx context.Context, teamID, groupID int64, delta int) error {
	group, err := q.groups.GetByID(ctx, groupID)
	if err != nil {
		return notFoundAs(err, "group %d not found", groupID)
	}
	current, err := q.athletes.CountByTeamAndGroup(ctx, teamID, groupID)
	if err != nil {
		return err
	}
	if current+delta > group.MaxAthletesPerTeam {
		return &domain.QuotaExceededError{
			Dimension: domain.QuotaAthletesPerTeam,
			Current:   current,
			Limit:     group.MaxAthletesPerTeam,
		}
	}
	return nil
}

// CheckLeaderCount verifies the leader count for (team, group) plus delta
// stays within MaxLeadersPerTeam. Leaders are confirmed registration rows
// with no athlete.
func (q *QuotaEvaluator) CheckLeaderCount(ctx context.Context, teamID, groupID int64, delta int) error {
	group, err := q.groups.GetByID(ctx, groupID)
	if err != nil {
		return notFoundAs(err, "group %d not found", groupID)
	}
	current, err := q.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
		TeamID: teamID, GroupID: groupID, Leaders: true,
	})
	if err != nil {
		return err
	}
	if current+delta > group.MaxLeadersPerTeam {
		return &domain.QuotaExceededError{
			Dimension: domain.QuotaLeadersPerTeam,
			Current:   current,
			Limit:     group.MaxLeadersPerTeam,
		}
	}
	return nil
}

// CheckEventsPerAthlete verifies the proposed final event set fits within the
// athlete's group limit. It is evaluated against the whole proposed set, not
// incrementally, because registrations are replaced wholesale.
func (q *QuotaEvaluator) CheckEventsPerAthlete(ctx context.Context, athleteID int64, proposedEventIDs []int64) error {
	athlete, err := q.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return notFoundAs(err, "athlete %d not found", athleteID)
	}
	group, err := q.groups.GetByID(ctx, athlete.GroupID)
	if err != nil {
		return notFoundAs(err, "group %d not found", athlete.GroupID)
	}
	if len(proposedEventIDs) > group.MaxEventsPerAthlete {
		return &domain.QuotaExceededError{
			Dimension: domain.QuotaEventsPerAthlete,
			Current:   len(proposedEventIDs),
			Limit:     group.MaxEventsPerAthlete,
		}
	}
	return nil
}

// CheckEventCapacity verifies that adding delta registrations to (event,
// group) stays within MaxParticipantsPerEvent. When excludingAthleteID
// already holds a confirmed registration for the event, that slot is
// subtracted first so an athlete re-registering for an event they already
// hold never consumes an extra slot.
func (q *QuotaEvaluator) CheckEventCapacity(ctx context.Context, eventID, groupID, excludingAthleteID int64, delta int) error {
	group, err := q.groups.GetByID(ctx, groupID)
	if err != nil {
		return notFoundAs(err, "group %d not found", groupID)
	}
	if group.EventCapacityUnlimited() {
		return nil
	}

	current, err := q.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
		EventID: eventID, GroupID: groupID,
	})
	if err != nil {
		return err
	}

	if excludingAthleteID != 0 {
		held, err := q.registrations.CountConfirmed(ctx, domain.RegistrationFilter{
			EventID: eventID, AthleteID: excludingAthleteID,
		})
		if err != nil {
			return err
		}
		if held > 0 {
			current--
		}
	}

	if current+delta > group.MaxParticipantsPerEvent {
		return &domain.QuotaExceededError{
			Dimension: domain.QuotaEventCapacity,
			EventID:   eventID,
			Current:   current,
			Limit:     group.MaxParticipantsPerEvent,
		}
	}
	return nil
}
