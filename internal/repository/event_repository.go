package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const eventColumns = "id, invitation_id, title, description, date, icon, created_at, updated_at"

// EventRepo manages the `events` (acara) table.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

func scanEvent(s rowScanner) (model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.InvitationID, &e.Title, &e.Desc, &e.Date, &e.Icon, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func insertEvent(ctx context.Context, q DBTX, e *model.Event) error {
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	res, err := q.ExecContext(ctx,
		"INSERT INTO events (invitation_id, title, description, date, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.InvitationID, e.Title, e.Desc, e.Date, e.Icon, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return err
	}
	e.ID, err = lastID(res)
	return err
}

// Create inserts e and fills its id and timestamps.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error { return insertEvent(ctx, r.DB, e) }

// GetByID returns a single event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByInvitation returns the events of an invitation ordered by date.
func (r *EventRepo) ListByInvitation(ctx context.Context, invitationID uint64) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE invitation_id = ? ORDER BY date, id", invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update writes every mutable column of e.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET title = ?, description = ?, date = ?, icon = ?, updated_at = ? WHERE id = ?",
		e.Title, e.Desc, e.Date, e.Icon, e.UpdatedAt, e.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Delete removes the event.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
