package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const templateColumns = "id, title, description, type, file_path, thumbnail_path, price, flag_active, created_at, updated_at"

// TemplateRepo manages the template marketplace table.
type TemplateRepo struct{ DB *sql.DB }

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{DB: db} }

// Page is one page of a paginated listing.
type Page struct {
	Number  int
	PerPage int
}

// Offset returns the SQL OFFSET for the page (pages are 1-based).
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.PerPage
}

func scanTemplate(s rowScanner) (model.Template, error) {
	var t model.Template
	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Type, &t.FilePath, &t.ThumbnailPath,
		&t.Price, &t.FlagActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts t, assigning a UUID when t.ID is empty.
func (r *TemplateRepo) Create(ctx context.Context, t *model.Template) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO templates ("+templateColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.Title, t.Description, t.Type, t.FilePath, t.ThumbnailPath, t.Price, t.FlagActive, t.CreatedAt, t.UpdatedAt)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// GetByID returns a template regardless of its active flag.
func (r *TemplateRepo) GetByID(ctx context.Context, id string) (*model.Template, error) {
	return r.getOne(ctx, "SELECT "+templateColumns+" FROM templates WHERE id = ? LIMIT 1", id)
}

// GetActiveByID returns a template only when it is published.
func (r *TemplateRepo) GetActiveByID(ctx context.Context, id string) (*model.Template, error) {
	return r.getOne(ctx, "SELECT "+templateColumns+" FROM templates WHERE id = ? AND flag_active = 1 LIMIT 1", id)
}

func (r *TemplateRepo) getOne(ctx context.Context, query, id string) (*model.Template, error) {
	t, err := scanTemplate(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Exists reports whether a template with id exists.
func (r *TemplateRepo) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM templates WHERE id = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActive returns one page of published templates, newest first, plus the
// total number of published templates.
func (r *TemplateRepo) ListActive(ctx context.Context, p Page) ([]model.Template, int64, error) {
	return r.list(ctx, " WHERE flag_active = 1", p)
}

// ListAll is ListActive including disabled templates.
func (r *TemplateRepo) ListAll(ctx context.Context, p Page) ([]model.Template, int64, error) {
	return r.list(ctx, "", p)
}

func (r *TemplateRepo) list(ctx context.Context, where string, p Page) ([]model.Template, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM templates"+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM templates"+where+" ORDER BY created_at DESC, id LIMIT ? OFFSET ?",
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// Update replaces the descriptive fields and the active flag.
func (r *TemplateRepo) Update(ctx context.Context, t *model.Template) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE templates SET title = ?, description = ?, type = ?, price = ?, flag_active = ?, updated_at = ? WHERE id = ?",
		t.Title, t.Description, t.Type, t.Price, t.FlagActive, t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
