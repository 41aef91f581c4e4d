package service

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

// TxRepos bundles the repositories the write path needs bound to a single
// transaction.
type TxRepos struct {
	Meets         domain.MeetRepository
	Teams         domain.TeamRepository
	Groups        domain.GroupRepository
	Events        domain.EventRepository
	Athletes      domain.AthleteRepository
	Registrations domain.RegistrationRepository
}

// TxReposFactory builds transaction-bound repositories. Wired from the
// repository package in main so services stay free of storage imports.
type TxReposFactory func(tx *sql.Tx) TxRepos

// RegistrationService atomically replaces an athlete's full set of event
// registrations. Each Replace runs load, validation, and the delete/insert
// diff inside one immediate-mode transaction on the single-connection write
// pool, so concurrent replacers are serialized and a passed capacity check
// cannot be invalidated before commit.
type RegistrationService struct {
	writeDB       *sql.DB
	repos         TxReposFactory
	athletes      domain.AthleteRepository
	registrations domain.RegistrationRepository
	logger        *slog.Logger
}

func NewRegistrationService(writeDB *sql.DB, repos TxReposFactory, athletes domain.AthleteRepository, registrations domain.RegistrationRepository, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		writeDB:       writeDB,
		repos:         repos,
		athletes:      athletes,
		registrations: registrations,
		logger:        logger,
	}
}

// Replace validates targetEventIDs as a whole against the athlete's group
// rules and commits the diff against the currently confirmed set. Duplicate
// ids are collapsed; an empty target withdraws the athlete from all events
// and is always valid. On any validation or persistence failure the stored
// set is left untouched.
func (s *RegistrationService) Replace(ctx context.Context, teamID, athleteID int64, targetEventIDs []int64) (*domain.ReplaceResult, error) {
	target := dedupeSorted(targetEventIDs)

	var result *domain.ReplaceResult
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		r := s.repos(tx)

		athlete, err := r.Athletes.GetByID(ctx, athleteID)
		if err != nil {
			return notFoundAs(err, "athlete %d not found", athleteID)
		}
		if athlete.TeamID != teamID {
			return domain.ErrAuthorization("athlete %d does not belong to team %d", athleteID, teamID)
		}

		if err := s.checkWindow(ctx, r, teamID); err != nil {
			return err
		}

		quota := NewQuotaEvaluator(r.Groups, r.Athletes, r.Registrations)
		if err := quota.CheckEventsPerAthlete(ctx, athleteID, target); err != nil {
			return err
		}

		for _, eventID := range target {
			if _, err := r.Events.GetByID(ctx, eventID); err != nil {
				return notFoundAs(err, "event %d not found", eventID)
			}
			if _, err := r.Events.GetMapping(ctx, athlete.GroupID, eventID); err != nil {
				if _, ok := err.(*domain.NotFoundError); ok {
					return &domain.IneligibleEventError{EventID: eventID}
				}
				return err
			}
			if err := quota.CheckEventCapacity(ctx, eventID, athlete.GroupID, athleteID, 1); err != nil {
				return err
			}
		}

		existing, err := r.Registrations.ListConfirmed(ctx, domain.RegistrationFilter{
			TeamID: teamID, AthleteID: athleteID,
		})
		if err != nil {
			return err
		}

		held := make(map[int64]int64, len(existing)) // event id -> registration id
		for _, reg := range existing {
			held[reg.EventID] = reg.ID
		}
		wanted := make(map[int64]bool, len(target))
		for _, id := range target {
			wanted[id] = true
		}

		res := domain.ReplaceResult{EventIDs: target}
		for eventID, regID := range held {
			if wanted[eventID] {
				res.Kept++
				continue
			}
			if err := r.Registrations.Delete(ctx, regID); err != nil {
				return err
			}
			res.Deleted++
		}
		for _, eventID := range target {
			if _, ok := held[eventID]; ok {
				continue
			}
			_, err := r.Registrations.Insert(ctx, &domain.Registration{
				TeamID:    teamID,
				AthleteID: &athleteID,
				GroupID:   athlete.GroupID,
				EventID:   eventID,
				Status:    domain.RegistrationConfirmed,
			})
			if err != nil {
				return err
			}
			res.Inserted++
		}

		result = &res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("replaced athlete registrations",
		"team_id", teamID, "athlete_id", athleteID,
		"events", len(result.EventIDs), "deleted", result.Deleted, "inserted", result.Inserted)
	return result, nil
}

// RegisteredEventIDs returns the athlete's confirmed event ids in ascending
// order. The empty set yields an empty slice, not nil semantics surprises.
func (s *RegistrationService) RegisteredEventIDs(ctx context.Context, teamID, athleteID int64) ([]int64, error) {
	athlete, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return nil, notFoundAs(err, "athlete %d not found", athleteID)
	}
	if athlete.TeamID != teamID {
		return nil, domain.ErrAuthorization("athlete %d does not belong to team %d", athleteID, teamID)
	}

	regs, err := s.registrations.ListConfirmed(ctx, domain.RegistrationFilter{
		TeamID: teamID, AthleteID: athleteID,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.EventID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// AddLeader registers a team-level leader row (NULL athlete) for an event,
// subject to eligibility and the group's MaxLeadersPerTeam.
func (s *RegistrationService) AddLeader(ctx context.Context, teamID, eventID int64) (*domain.Registration, error) {
	var created *domain.Registration
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		r := s.repos(tx)

		team, err := r.Teams.GetByID(ctx, teamID)
		if err != nil {
			return notFoundAs(err, "team %d not found", teamID)
		}
		if team.GroupID == 0 {
			return domain.ErrValidation("team %d has no group assigned", teamID)
		}
		if err := s.checkWindow(ctx, r, teamID); err != nil {
			return err
		}

		if _, err := r.Events.GetByID(ctx, eventID); err != nil {
			return notFoundAs(err, "event %d not found", eventID)
		}
		if _, err := r.Events.GetMapping(ctx, team.GroupID, eventID); err != nil {
			if _, ok := err.(*domain.NotFoundError); ok {
				return &domain.IneligibleEventError{EventID: eventID}
			}
			return err
		}

		quota := NewQuotaEvaluator(r.Groups, r.Athletes, r.Registrations)
		if err := quota.CheckLeaderCount(ctx, teamID, team.GroupID, 1); err != nil {
			return err
		}

		created, err = r.Registrations.Insert(ctx, &domain.Registration{
			TeamID:  teamID,
			GroupID: team.GroupID,
			EventID: eventID,
			Status:  domain.RegistrationConfirmed,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveLeader deletes a leader registration owned by the team.
func (s *RegistrationService) RemoveLeader(ctx context.Context, teamID, registrationID int64) error {
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		r := s.repos(tx)

		reg, err := r.Registrations.GetByID(ctx, registrationID)
		if err != nil {
			return notFoundAs(err, "registration %d not found", registrationID)
		}
		if reg.TeamID != teamID {
			return domain.ErrAuthorization("registration %d does not belong to team %d", registrationID, teamID)
		}
		if !reg.Leader() {
			return domain.ErrValidation("registration %d is not a leader registration", registrationID)
		}
		return r.Registrations.Delete(ctx, registrationID)
	})
}

// checkWindow rejects writes when the team's meet is closed or outside its
// registration window.
func (s *RegistrationService) checkWindow(ctx context.Context, r TxRepos, teamID int64) error {
	team, err := r.Teams.GetByID(ctx, teamID)
	if err != nil {
		return notFoundAs(err, "team %d not found", teamID)
	}
	meet, err := r.Meets.GetByID(ctx, team.SportsMeetID)
	if err != nil {
		return notFoundAs(err, "sports meet %d not found", team.SportsMeetID)
	}
	if !meet.RegistrationOpen(time.Now()) {
		return domain.ErrValidation("registration for meet %q is closed", meet.Name)
	}
	return nil
}

// dedupeSorted collapses duplicate ids and returns them in ascending order,
// which fixes the validation and error-reporting order.
func dedupeSorted(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
