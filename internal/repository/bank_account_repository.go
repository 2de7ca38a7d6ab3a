package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const bankAccountColumns = "id, invitation_id, account_name, account_number, bank, created_at, updated_at"

// BankAccountRepo manages the `bank_accounts` (rekening) table.
type BankAccountRepo struct{ DB *sql.DB }

func NewBankAccountRepo(db *sql.DB) *BankAccountRepo { return &BankAccountRepo{DB: db} }

func scanBankAccount(s rowScanner) (model.BankAccount, error) {
	var b model.BankAccount
	err := s.Scan(&b.ID, &b.InvitationID, &b.AccountName, &b.AccountNumber, &b.Bank, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func insertBankAccount(ctx context.Context, q DBTX, b *model.BankAccount) error {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	res, err := q.ExecContext(ctx,
		"INSERT INTO bank_accounts (invitation_id, account_name, account_number, bank, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		b.InvitationID, b.AccountName, b.AccountNumber, b.Bank, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return err
	}
	b.ID, err = lastID(res)
	return err
}

func (r *BankAccountRepo) Create(ctx context.Context, b *model.BankAccount) error {
	return insertBankAccount(ctx, r.DB, b)
}

func (r *BankAccountRepo) GetByID(ctx context.Context, id uint64) (*model.BankAccount, error) {
	b, err := scanBankAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+bankAccountColumns+" FROM bank_accounts WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BankAccountRepo) ListByInvitation(ctx context.Context, invitationID uint64) ([]model.BankAccount, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bankAccountColumns+" FROM bank_accounts WHERE invitation_id = ? ORDER BY id", invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BankAccount{}
	for rows.Next() {
		b, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BankAccountRepo) Update(ctx context.Context, b *model.BankAccount) error {
	b.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bank_accounts SET account_name = ?, account_number = ?, bank = ?, updated_at = ? WHERE id = ?",
		b.AccountName, b.AccountNumber, b.Bank, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *BankAccountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM bank_accounts WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
