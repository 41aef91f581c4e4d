package repository

import (
	"context"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

const groupColumns = `id, sports_meet_id, name, gender, grade,
	max_leaders_per_team, max_athletes_per_team, max_events_per_athlete,
	max_participants_per_event, max_relays_per_team, allow_mixed_events,
	status, description, created_at, updated_at`

type GroupRepo struct {
	q db.DBTX
}

func NewGroupRepo(q db.DBTX) *GroupRepo {
	return &GroupRepo{q: q}
}

func (r *GroupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return g, nil
}

func (r *GroupRepo) List(ctx context.Context, meetID int64) ([]domain.Group, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE sports_meet_id = ? ORDER BY id`, meetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	now := time.Now().UTC()
	if g.Status == "" {
		g.Status = domain.GroupStatusActive
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO groups (sports_meet_id, name, gender, grade,
			max_leaders_per_team, max_athletes_per_team, max_events_per_athlete,
			max_participants_per_event, max_relays_per_team, allow_mixed_events,
			status, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.SportsMeetID, g.Name, g.Gender, g.Grade,
		g.MaxLeadersPerTeam, g.MaxAthletesPerTeam, g.MaxEventsPerAthlete,
		g.MaxParticipantsPerEvent, g.MaxRelaysPerTeam, boolToInt(g.AllowMixedEvents),
		g.Status, g.Description, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *g
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	var g domain.Group
	var mixed int64
	err := row.Scan(&g.ID, &g.SportsMeetID, &g.Name, &g.Gender, &g.Grade,
		&g.MaxLeadersPerTeam, &g.MaxAthletesPerTeam, &g.MaxEventsPerAthlete,
		&g.MaxParticipantsPerEvent, &g.MaxRelaysPerTeam, &mixed,
		&g.Status, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.AllowMixedEvents = mixed != 0
	return &g, nil
}
