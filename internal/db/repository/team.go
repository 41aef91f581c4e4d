package repository

import (
	"context"
	"database/sql"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

const teamColumns = `id, sports_meet_id, group_id, name, org_code, team_code,
	password_hash, contact_person, contact_phone, description, status,
	created_at, updated_at`

type TeamRepo struct {
	q db.DBTX
}

func NewTeamRepo(q db.DBTX) *TeamRepo {
	return &TeamRepo{q: q}
}

func (r *TeamRepo) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return t, nil
}

func (r *TeamRepo) GetByOrgCode(ctx context.Context, orgCode string) (*domain.Team, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE org_code = ?`, orgCode)
	t, err := scanTeam(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return t, nil
}

func (r *TeamRepo) List(ctx context.Context, meetID int64) ([]domain.Team, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE sports_meet_id = ? ORDER BY id`, meetID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (r *TeamRepo) Create(ctx context.Context, t *domain.Team) (*domain.Team, error) {
	now := time.Now().UTC()
	if t.Status == "" {
		t.Status = domain.TeamStatusActive
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO teams (sports_meet_id, group_id, name, org_code, team_code,
			password_hash, contact_person, contact_phone, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.SportsMeetID, nullID(t.GroupID), t.Name, t.OrgCode, t.TeamCode,
		t.PasswordHash, t.ContactPerson, t.ContactPhone, t.Description, t.Status, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *t
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (r *TeamRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE teams SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("team %d not found", id)
	}
	return nil
}

// nullID maps a zero id to NULL for optional foreign keys.
func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	var t domain.Team
	var groupID sql.NullInt64
	err := row.Scan(&t.ID, &t.SportsMeetID, &groupID, &t.Name, &t.OrgCode, &t.TeamCode,
		&t.PasswordHash, &t.ContactPerson, &t.ContactPhone, &t.Description, &t.Status,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.GroupID = groupID.Int64
	return &t, nil
}
