package repository

import (
	"context"
	"database/sql"
	"time"

	"meetreg/internal/db"
	"meetreg/internal/domain"
)

const eventColumns = `id, name, event_type, gender, description, created_at, updated_at`

type EventRepo struct {
	q db.DBTX
}

func NewEventRepo(q db.DBTX) *EventRepo {
	return &EventRepo{q: q}
}

func (r *EventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return e, nil
}

func (r *EventRepo) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListByGroup returns the events a group may enter, in ascending event id.
// Eligibility comes solely from group_event_mappings rows; nothing is inferred.
func (r *EventRepo) ListByGroup(ctx context.Context, groupID int64) ([]domain.Event, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT e.id, e.name, e.event_type, e.gender, e.description, e.created_at, e.updated_at
		FROM events e
		JOIN group_event_mappings m ON m.event_id = e.id
		WHERE m.group_id = ?
		ORDER BY e.id`, groupID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *EventRepo) ListByGroupMandatory(ctx context.Context, groupID int64, mandatory bool) ([]domain.Event, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT e.id, e.name, e.event_type, e.gender, e.description, e.created_at, e.updated_at
		FROM events e
		JOIN group_event_mappings m ON m.event_id = e.id
		WHERE m.group_id = ? AND m.is_mandatory = ?
		ORDER BY e.id`, groupID, boolToInt(mandatory))
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *EventRepo) GetMapping(ctx context.Context, groupID, eventID int64) (*domain.GroupEventMapping, error) {
	var m domain.GroupEventMapping
	var mandatory int64
	err := r.q.QueryRowContext(ctx, `
		SELECT id, group_id, event_id, is_mandatory, created_at
		FROM group_event_mappings WHERE group_id = ? AND event_id = ?`,
		groupID, eventID).Scan(&m.ID, &m.GroupID, &m.EventID, &mandatory, &m.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	m.IsMandatory = mandatory != 0
	return &m, nil
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO events (name, event_type, gender, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.EventType, e.Gender, e.Description, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *e
	out.ID = id
	out.CreatedAt = now
	out.UpdatedAt = now
	return &out, nil
}

func (r *EventRepo) CreateMapping(ctx context.Context, m *domain.GroupEventMapping) (*domain.GroupEventMapping, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO group_event_mappings (group_id, event_id, is_mandatory, created_at)
		VALUES (?, ?, ?, ?)`,
		m.GroupID, m.EventID, boolToInt(m.IsMandatory), now)
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
	return &out, nil
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.Name, &e.EventType, &e.Gender, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
