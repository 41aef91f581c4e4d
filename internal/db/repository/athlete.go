package repository

import (
	"context"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

const athleteColumns = `id, team_id, group_id, name, id_number, contact_phone, created_at, updated_at`

type AthleteRepo struct {
	q db.DBTX
}

func NewAthleteRepo(q db.DBTX) *AthleteRepo {
	return &AthleteRepo{q: q}
}

func (r *AthleteRepo) GetByID(ctx context.Context, id int64) (*domain.Athlete, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+athleteColumns+` FROM athletes WHERE id = ?`, id)
	a, err := scanAthlete(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return a, nil
}

func (r *AthleteRepo) GetByTeamAndIDNumber(ctx context.Context, teamID int64, idNumber string) (*domain.Athlete, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+athleteColumns+` FROM athletes WHERE team_id = ? AND id_number = ?`,
		teamID, idNumber)
	a, err := scanAthlete(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return a, nil
}

func (r *AthleteRepo) ListByTeam(ctx context.Context, teamID int64) ([]domain.Athlete, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+athleteColumns+` FROM athletes WHERE team_id = ? ORDER BY id`, teamID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var athletes []domain.Athlete
	for rows.Next() {
		a, err := scanAthlete(rows)
		if err != nil {
			return nil, err
		}
		athletes = append(athletes, *a)
	}
	return athletes, rows.Err()
}

func (r *AthleteRepo) Create(ctx context.Context, a *domain.Athlete) (*domain.Athlete, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO athletes (team_id, group_id, name, id_number, contact_phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.TeamID, a.GroupID, a.Name, a.IDNumber, a.ContactPhone, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *a
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (r *AthleteRepo) Update(ctx context.Context, a *domain.Athlete) (*domain.Athlete, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE athletes SET group_id = ?, name = ?, id_number = ?, contact_phone = ?, updated_at = ?
		WHERE id = ?`,
		a.GroupID, a.Name, a.IDNumber, a.ContactPhone, now, a.ID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("athlete %d not found", a.ID)
	}
	out := *a
	out.UpdatedAt = now
	return &out, nil
}

func (r *AthleteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM athletes WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("athlete %d not found", id)
	}
	return nil
}

func (r *AthleteRepo) CountByTeamAndGroup(ctx context.Context, teamID, groupID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM athletes WHERE team_id = ? AND group_id = ?`,
		teamID, groupID).Scan(&n)
	return n, mapDBError(err)
}

func (r *AthleteRepo) CountByTeam(ctx context.Context, teamID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM athletes WHERE team_id = ?`, teamID).Scan(&n)
	return n, mapDBError(err)
}

func scanAthlete(row rowScanner) (*domain.Athlete, error) {
	var a domain.Athlete
	err := row.Scan(&a.ID, &a.TeamID, &a.GroupID, &a.Name, &a.IDNumber, &a.ContactPhone,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
