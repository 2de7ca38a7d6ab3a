package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const galleryColumns = "id, invitation_id, image, created_at, updated_at"

// GalleryRepo manages the `gallery_images` (galery) table.
type GalleryRepo struct{ DB *sql.DB }

func NewGalleryRepo(db *sql.DB) *GalleryRepo { return &GalleryRepo{DB: db} }

func scanGalleryImage(s rowScanner) (model.GalleryImage, error) {
	var g model.GalleryImage
	err := s.Scan(&g.ID, &g.InvitationID, &g.Image, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func insertGalleryImage(ctx context.Context, q DBTX, g *model.GalleryImage) error {
	now := time.Now().UTC()
	g.CreatedAt, g.UpdatedAt = now, now
	res, err := q.ExecContext(ctx,
		"INSERT INTO gallery_images (invitation_id, image, created_at, updated_at) VALUES (?, ?, ?, ?)",
		g.InvitationID, g.Image, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return err
	}
	g.ID, err = lastID(res)
	return err
}

func (r *GalleryRepo) Create(ctx context.Context, g *model.GalleryImage) error {
	return insertGalleryImage(ctx, r.DB, g)
}

func (r *GalleryRepo) GetByID(ctx context.Context, id uint64) (*model.GalleryImage, error) {
	g, err := scanGalleryImage(r.DB.QueryRowContext(ctx,
		"SELECT "+galleryColumns+" FROM gallery_images WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GalleryRepo) ListByInvitation(ctx context.Context, invitationID uint64) ([]model.GalleryImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+galleryColumns+" FROM gallery_images WHERE invitation_id = ? ORDER BY id", invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.GalleryImage{}
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GalleryRepo) Update(ctx context.Context, g *model.GalleryImage) error {
	g.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE gallery_images SET image = ?, updated_at = ? WHERE id = ?", g.Image, g.UpdatedAt, g.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *GalleryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM gallery_images WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
