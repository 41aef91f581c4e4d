package repository

import (
	"context"
	"database/sql"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

const meetColumns = `id, name, org_code, meet_code, description, location,
	start_time, end_time, registration_start, registration_end, status,
	created_at, updated_at`

type MeetRepo struct {
	q db.DBTX
}

func NewMeetRepo(q db.DBTX) *MeetRepo {
	return &MeetRepo{q: q}
}

func (r *MeetRepo) GetByID(ctx context.Context, id int64) (*domain.SportsMeet, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+meetColumns+` FROM sports_meets WHERE id = ?`, id)
	m, err := scanMeet(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return m, nil
}

func (r *MeetRepo) GetByOrgCode(ctx context.Context, orgCode string) (*domain.SportsMeet, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+meetColumns+` FROM sports_meets WHERE org_code = ?`, orgCode)
	m, err := scanMeet(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return m, nil
}

func (r *MeetRepo) ListActive(ctx context.Context) ([]domain.SportsMeet, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+meetColumns+` FROM sports_meets WHERE status = ? ORDER BY id`,
		domain.MeetStatusActive)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var meets []domain.SportsMeet
	for rows.Next() {
		m, err := scanMeet(rows)
		if err != nil {
			return nil, err
		}
		meets = append(meets, *m)
	}
	return meets, rows.Err()
}

func (r *MeetRepo) SetStatus(ctx context.Context, id int64, status string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE sports_meets SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("sports meet %d not found", id)
	}
	return nil
}

// Create inserts a meet row. Used by the seed applier, not by the engine.
func (r *MeetRepo) Create(ctx context.Context, m *domain.SportsMeet) (*domain.SportsMeet, error) {
	now := time.Now().UTC()
	if m.Status == "" {
		m.Status = domain.MeetStatusActive
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO sports_meets (name, org_code, meet_code, description, location,
			start_time, end_time, registration_start, registration_end, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.OrgCode, m.MeetCode, m.Description, m.Location,
		m.StartTime, m.EndTime, m.RegistrationStart, m.RegistrationEnd, m.Status, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeet(row rowScanner) (*domain.SportsMeet, error) {
	var m domain.SportsMeet
	var start, end, regStart, regEnd sql.NullTime
	err := row.Scan(&m.ID, &m.Name, &m.OrgCode, &m.MeetCode, &m.Description, &m.Location,
		&start, &end, &regStart, &regEnd, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.StartTime = start.Time
	m.EndTime = end.Time
	m.RegistrationStart = regStart.Time
	m.RegistrationEnd = regEnd.Time
	return &m, nil
}
