package service

import (
	"context"
	"database/sql"
	"log/slog"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

// AthleteService manages a team's athlete roster. Creation and group changes
// run inside a write transaction so the athletes-per-team quota cannot be
// overshot by concurrent requests.
type AthleteService struct {
	writeDB  *sql.DB
	repos    TxReposFactory
	athletes domain.AthleteRepository
	logger   *slog.Logger
}

func NewAthleteService(writeDB *sql.DB, repos TxReposFactory, athletes domain.AthleteRepository, logger *slog.Logger) *AthleteService {
	return &AthleteService{writeDB: writeDB, repos: repos, athletes: athletes, logger: logger}
}

// ListByTeam returns the team's athletes.
func (s *AthleteService) ListByTeam(ctx context.Context, teamID int64) ([]domain.Athlete, error) {
	return s.athletes.ListByTeam(ctx, teamID)
}

// Get returns one athlete, enforcing team ownership.
func (s *AthleteService) Get(ctx context.Context, teamID, athleteID int64) (*domain.Athlete, error) {
	athlete, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return nil, notFoundAs(err, "athlete %d not found", athleteID)
	}
	if athlete.TeamID != teamID {
		return nil, domain.ErrAuthorization("athlete %d does not belong to team %d", athleteID, teamID)
	}
	return athlete, nil
}

// Create adds an athlete to the team, subject to the group's
// MaxAthletesPerTeam and (team, idNumber) uniqueness.
func (s *AthleteService) Create(ctx context.Context, a *domain.Athlete) (*domain.Athlete, error) {
	if a.Name == "" {
		return nil, domain.ErrValidation("athlete name is required")
	}

	var created *domain.Athlete
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		r := s.repos(tx)

		if _, err := r.Groups.GetByID(ctx, a.GroupID); err != nil {
			return notFoundAs(err, "group %d not found", a.GroupID)
		}

		quota := NewQuotaEvaluator(r.Groups, r.Athletes, r.Registrations)
		if err := quota.CheckAthleteCount(ctx, a.TeamID, a.GroupID, 1); err != nil {
			return err
		}

		var err error
		created, err = r.Athletes.Create(ctx, a)
		if _, ok := err.(*domain.ConflictError); ok {
			return domain.ErrConflict("an athlete with id number %q already exists in this team", a.IDNumber)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("created athlete", "team_id", created.TeamID, "athlete_id", created.ID)
	return created, nil
}

// Update edits an athlete, enforcing team ownership. Moving the athlete to a
// different group is rejected while confirmed registrations exist: the prior
// set was validated against the old group's rules, so the caller must
// withdraw and re-register instead.
func (s *AthleteService) Update(ctx context.Context, teamID int64, a *domain.Athlete) (*domain.Athlete, error) {
	var updated *domain.Athlete
	err := db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		r := s.repos(tx)

		existing, err := r.Athletes.GetByID(ctx, a.ID)
		if err != nil {
			return notFoundAs(err, "athlete %d not found", a.ID)
		}
		if existing.TeamID != teamID {
			return domain.ErrAuthorization("athlete %d does not belong to team %d", a.ID, teamID)
		}

		if a.GroupID != existing.GroupID {
			regs, err := r.Registrations.CountConfirmed(ctx, domain.RegistrationFilter{AthleteID: a.ID})
			if err != nil {
				return err
			}
			if regs > 0 {
				return domain.ErrValidation("athlete %d holds %d confirmed registrations; withdraw them before changing group", a.ID, regs)
			}
			if _, err := r.Groups.GetByID(ctx, a.GroupID); err != nil {
				return notFoundAs(err, "group %d not found", a.GroupID)
			}
			quota := NewQuotaEvaluator(r.Groups, r.Athletes, r.Registrations)
			if err := quota.CheckAthleteCount(ctx, teamID, a.GroupID, 1); err != nil {
				return err
			}
		}

		a.TeamID = teamID
		updated, err = r.Athletes.Update(ctx, a)
		if _, ok := err.(*domain.ConflictError); ok {
			return domain.ErrConflict("an athlete with id number %q already exists in this team", a.IDNumber)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an athlete. Rejected while confirmed registrations exist so
// capacity counts can never reference a missing athlete.
func (s *AthleteService) Delete(ctx context.Context, teamID, athleteID int64) error {
	return db.RunInTx(ctx, s.writeDB, func(tx *sql.Tx) error {
		r := s.repos(tx)

		athlete, err := r.Athletes.GetByID(ctx, athleteID)
		if err != nil {
			return notFoundAs(err, "athlete %d not found", athleteID)
		}
		if athlete.TeamID != teamID {
			return domain.ErrAuthorization("athlete %d does not belong to team %d", athleteID, teamID)
		}

		regs, err := r.Registrations.CountConfirmed(ctx, domain.RegistrationFilter{AthleteID: athleteID})
		if err != nil {
			return err
		}
		if regs > 0 {
			return domain.ErrValidation("athlete %d holds %d confirmed registrations; withdraw them before deleting", athleteID, regs)
		}

		return r.Athletes.Delete(ctx, athleteID)
	})
}
