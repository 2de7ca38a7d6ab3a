package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

// SavedTemplateRepo stores user bookmarks.  The (user_id, template_id)
// unique key makes a second save fail instead of upserting.
type SavedTemplateRepo struct{ DB *sql.DB }

func NewSavedTemplateRepo(db *sql.DB) *SavedTemplateRepo { return &SavedTemplateRepo{DB: db} }

// Save bookmarks templateID for userID.  A duplicate pair yields ErrConflict.
func (r *SavedTemplateRepo) Save(ctx context.Context, userID uint64, templateID string) (*model.SavedTemplate, error) {
	s := &model.SavedTemplate{UserID: userID, TemplateID: templateID, CreatedAt: time.Now().UTC()}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO saved_templates (user_id, template_id, created_at) VALUES (?, ?, ?)",
		s.UserID, s.TemplateID, s.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if s.ID, err = lastID(res); err != nil {
		return nil, err
	}
	return s, nil
}

// ListTemplates returns the user's bookmarked templates that are still
// published, most recently saved first.
func (r *SavedTemplateRepo) ListTemplates(ctx context.Context, userID uint64) ([]model.Template, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id, t.title, t.description, t.type, t.file_path, t.thumbnail_path, t.price, t.flag_active, t.created_at, t.updated_at
		   FROM saved_templates s
		   JOIN templates t ON t.id = s.template_id
		  WHERE s.user_id = ? AND t.flag_active = 1
		  ORDER BY s.created_at DESC, s.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
