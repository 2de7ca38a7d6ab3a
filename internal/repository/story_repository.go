package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const storyColumns = "id, invitation_id, title, description, image, created_at, updated_at"

// StoryRepo manages the `stories` table.
type StoryRepo struct{ DB *sql.DB }

func NewStoryRepo(db *sql.DB) *StoryRepo { return &StoryRepo{DB: db} }

func scanStory(s rowScanner) (model.Story, error) {
	var st model.Story
	err := s.Scan(&st.ID, &st.InvitationID, &st.Title, &st.Desc, &st.Image, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func insertStory(ctx context.Context, q DBTX, st *model.Story) error {
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	res, err := q.ExecContext(ctx,
		"INSERT INTO stories (invitation_id, title, description, image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		st.InvitationID, st.Title, st.Desc, st.Image, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return err
	}
	st.ID, err = lastID(res)
	return err
}

func (r *StoryRepo) Create(ctx context.Context, st *model.Story) error {
	return insertStory(ctx, r.DB, st)
}

func (r *StoryRepo) GetByID(ctx context.Context, id uint64) (*model.Story, error) {
	st, err := scanStory(r.DB.QueryRowContext(ctx, "SELECT "+storyColumns+" FROM stories WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *StoryRepo) ListByInvitation(ctx context.Context, invitationID uint64) ([]model.Story, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+storyColumns+" FROM stories WHERE invitation_id = ? ORDER BY id", invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Story{}
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *StoryRepo) Update(ctx context.Context, st *model.Story) error {
	st.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE stories SET title = ?, description = ?, image = ?, updated_at = ? WHERE id = ?",
		st.Title, st.Desc, st.Image, st.UpdatedAt, st.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *StoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM stories WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
