package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

const registrationColumns = `id, team_id, athlete_id, group_id, event_id, status,
	registration_time, created_at, updated_at`

// RegistrationRepo reads and writes registration rows. The replacer binds it
// to a transaction via WithTx so its load-validate-commit sequence sees one
// consistent snapshot.
type RegistrationRepo struct {
	q db.DBTX
}

func NewRegistrationRepo(q db.DBTX) *RegistrationRepo {
	return &RegistrationRepo{q: q}
}

// WithTx returns a copy of the repo bound to the given transaction.
func (r *RegistrationRepo) WithTx(tx *sql.Tx) *RegistrationRepo {
	return &RegistrationRepo{q: tx}
}

func (r *RegistrationRepo) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = ?`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return reg, nil
}

// StatusCounts returns the team's registration counts keyed by status,
// including PENDING and CANCELLED rows. Reporting only.
func (r *RegistrationRepo) StatusCounts(ctx context.Context, teamID int64) (map[string]int, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM registrations WHERE team_id = ? GROUP BY status`, teamID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// EventTypeCounts returns the team's confirmed registration counts keyed by
// event type.
func (r *RegistrationRepo) EventTypeCounts(ctx context.Context, teamID int64) (map[string]int, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT e.event_type, COUNT(*)
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.team_id = ? AND r.status = ?
		GROUP BY e.event_type`, teamID, domain.RegistrationConfirmed)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var eventType string
		var n int
		if err := rows.Scan(&eventType, &n); err != nil {
			return nil, err
		}
		counts[eventType] = n
	}
	return counts, rows.Err()
}

func (r *RegistrationRepo) ListConfirmed(ctx context.Context, f domain.RegistrationFilter) ([]domain.Registration, error) {
	query, args := buildConfirmedQuery(`SELECT `+registrationColumns+` FROM registrations`, f)
	query += ` ORDER BY event_id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (r *RegistrationRepo) CountConfirmed(ctx context.Context, f domain.RegistrationFilter) (int, error) {
	query, args := buildConfirmedQuery(`SELECT COUNT(*) FROM registrations`, f)
	var n int
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, mapDBError(err)
}

func (r *RegistrationRepo) Insert(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	now := time.Now().UTC()
	if reg.Status == "" {
		reg.Status = domain.RegistrationConfirmed
	}
	regTime := reg.RegistrationTime
	if regTime.IsZero() {
		regTime = now
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO registrations (team_id, athlete_id, group_id, event_id, status,
			registration_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.TeamID, nullInt64(reg.AthleteID), reg.GroupID, reg.EventID, reg.Status,
		regTime, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *reg
	out.ID = id
	out.RegistrationTime = regTime
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (r *RegistrationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("registration %d not found", id)
	}
	return nil
}

// buildConfirmedQuery appends the CONFIRMED-only predicate plus the filter's
// constraints to the given SELECT prefix.
func buildConfirmedQuery(prefix string, f domain.RegistrationFilter) (string, []any) {
	conds := []string{"status = ?"}
	args := []any{domain.RegistrationConfirmed}

	if f.TeamID != 0 {
		conds = append(conds, "team_id = ?")
		args = append(args, f.TeamID)
	}
	if f.GroupID != 0 {
		conds = append(conds, "group_id = ?")
		args = append(args, f.GroupID)
	}
	if f.EventID != 0 {
		conds = append(conds, "event_id = ?")
		args = append(args, f.EventID)
	}
	if f.AthleteID != 0 {
		conds = append(conds, "athlete_id = ?")
		args = append(args, f.AthleteID)
	}
	if f.Leaders {
		conds = append(conds, "athlete_id IS NULL")
	}

	return prefix + " WHERE " + strings.Join(conds, " AND "), args
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	var reg domain.Registration
	var athleteID sql.NullInt64
	err := row.Scan(&reg.ID, &reg.TeamID, &athleteID, &reg.GroupID, &reg.EventID, &reg.Status,
		&reg.RegistrationTime, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	reg.AthleteID = int64Ptr(athleteID)
	return &reg, nil
}
