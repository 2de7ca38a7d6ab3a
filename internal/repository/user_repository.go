package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/utils"
)

const userColumns = "id, name, email, phone_number, password_hash, role, created_at, updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the registration input.  Password is plain text and is
// hashed by Create.
type NewUser struct {
	Name        string
	Email       string
	PhoneNumber *string
	Password    string
	Role        string
}

// Create hashes the password, inserts the user and returns it.
func (r *UserRepo) Create(ctx context.Context, in NewUser, cost int) (*model.User, error) {
	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, phone_number, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.Name, u.Email, u.PhoneNumber, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	if u.ID, err = lastID(res); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
}

// EnsureAdmin creates the admin account, or promotes an existing account
// with the same email.  Used to bootstrap the first administrator.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, password string, cost int) error {
	_, err := r.Create(ctx, NewUser{Name: "Administrator", Email: email, Password: password, Role: model.RoleAdmin}, cost)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrEmailExists) {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET role = ?, updated_at = ? WHERE email = ?",
		model.RoleAdmin, time.Now().UTC(), normalizeEmail(email))
	return err
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
