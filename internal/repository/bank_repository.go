package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const bankColumns = "id, name, image, flag_active, created_at, updated_at"

// BankRepo manages the admin-maintained `banks` reference list.
type BankRepo struct{ DB *sql.DB }

func NewBankRepo(db *sql.DB) *BankRepo { return &BankRepo{DB: db} }

func scanBank(s rowScanner) (model.Bank, error) {
	var b model.Bank
	err := s.Scan(&b.ID, &b.Name, &b.Image, &b.FlagActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// ListActive returns the banks users may pick from, by name.
func (r *BankRepo) ListActive(ctx context.Context) ([]model.Bank, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bankColumns+" FROM banks WHERE flag_active = 1 ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Bank{}
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BankRepo) Create(ctx context.Context, b *model.Bank) error {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO banks (name, image, flag_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		b.Name, b.Image, b.FlagActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return err
	}
	b.ID, err = lastID(res)
	return err
}

func (r *BankRepo) GetByID(ctx context.Context, id uint64) (*model.Bank, error) {
	b, err := scanBank(r.DB.QueryRowContext(ctx, "SELECT "+bankColumns+" FROM banks WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BankRepo) Update(ctx context.Context, b *model.Bank) error {
	b.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE banks SET name = ?, image = ?, flag_active = ?, updated_at = ? WHERE id = ?",
		b.Name, b.Image, b.FlagActive, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *BankRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM banks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
