package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/undangan-builder/internal/model"
)

const invitationFields = "user_id, template_id, cover_image, " +
	"man_name, man_nickname, man_ig, man_address, man_father, man_mother, " +
	"woman_name, woman_nickname, woman_ig, woman_address, woman_father, woman_mother, " +
	"created_at, updated_at"

const invitationColumns = "id, " + invitationFields

// Placeholder values for a freshly created invitation.  The couple replaces
// them through the update endpoints.
const (
	DefaultCoverImage = "default-cover.jpg"
	DefaultIG         = "@sya.hiday"
	DefaultAddress    = "Jl. Contoh, Kota Contoh"
	DefaultFather     = "Dad"
	DefaultMother     = "Mom"
)

// InvitationRepo manages the `invitations` (undangan) table.
type InvitationRepo struct{ DB *sql.DB }

func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{DB: db} }

// Seed holds the child rows inserted together with a new invitation.
type Seed struct {
	Event       model.Event
	Story       model.Story
	Gallery     model.GalleryImage
	BankAccount model.BankAccount
}

// DefaultSeed returns the starter event, story, gallery image and bank
// account every new invitation gets.
func DefaultSeed(now time.Time) Seed {
	return Seed{
		Event: model.Event{
			Title: "Acara Pernikahan",
			Desc:  "Deskripsi acara pernikahan",
			Date:  now.UTC().Truncate(time.Second),
			Icon:  "default-icon.png",
		},
		Story: model.Story{
			Title: "Cerita Cinta",
			Desc:  "Bagaimana kami bertemu dan jatuh cinta",
			Image: "default-story.jpg",
		},
		Gallery: model.GalleryImage{Image: "default-gallery.jpg"},
		BankAccount: model.BankAccount{
			AccountName:   "John Doe",
			AccountNumber: "1234567890",
			Bank:          "Bank ABC",
		},
	}
}

// ApplyDefaults fills the descriptive fields a create request does not carry.
func ApplyDefaults(inv *model.Invitation) {
	inv.CoverImage = DefaultCoverImage
	inv.ManIG, inv.WomanIG = DefaultIG, DefaultIG
	inv.ManAddress, inv.WomanAddress = DefaultAddress, DefaultAddress
	inv.ManFather, inv.WomanFather = DefaultFather, DefaultFather
	inv.ManMother, inv.WomanMother = DefaultMother, DefaultMother
}

func scanInvitation(s rowScanner) (model.Invitation, error) {
	var i model.Invitation
	err := s.Scan(&i.ID, &i.UserID, &i.TemplateID, &i.CoverImage,
		&i.ManName, &i.ManNickname, &i.ManIG, &i.ManAddress, &i.ManFather, &i.ManMother,
		&i.WomanName, &i.WomanNickname, &i.WomanIG, &i.WomanAddress, &i.WomanFather, &i.WomanMother,
		&i.CreatedAt, &i.UpdatedAt)
	return i, err
}

// CreateWithSeed inserts inv and the four seed rows in one transaction.
// Either all five rows are committed or none are.
func (r *InvitationRepo) CreateWithSeed(ctx context.Context, inv *model.Invitation, seed *Seed) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	inv.CreatedAt, inv.UpdatedAt = now, now
	res, err := tx.ExecContext(ctx,
		"INSERT INTO invitations ("+invitationFields+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		inv.UserID, inv.TemplateID, inv.CoverImage,
		inv.ManName, inv.ManNickname, inv.ManIG, inv.ManAddress, inv.ManFather, inv.ManMother,
		inv.WomanName, inv.WomanNickname, inv.WomanIG, inv.WomanAddress, inv.WomanFather, inv.WomanMother,
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	if inv.ID, err = lastID(res); err != nil {
		return err
	}

	seed.Event.InvitationID = inv.ID
	seed.Story.InvitationID = inv.ID
	seed.Gallery.InvitationID = inv.ID
	seed.BankAccount.InvitationID = inv.ID

	if err = insertEvent(ctx, tx, &seed.Event); err != nil {
		return fmt.Errorf("insert default event: %w", err)
	}
	if err = insertStory(ctx, tx, &seed.Story); err != nil {
		return fmt.Errorf("insert default story: %w", err)
	}
	if err = insertGalleryImage(ctx, tx, &seed.Gallery); err != nil {
		return fmt.Errorf("insert default gallery image: %w", err)
	}
	if err = insertBankAccount(ctx, tx, &seed.BankAccount); err != nil {
		return fmt.Errorf("insert default bank account: %w", err)
	}
	return tx.Commit()
}

// OwnerOf returns the user id that owns the invitation.
func (r *InvitationRepo) OwnerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM invitations WHERE id = ? LIMIT 1", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return owner, err
}

// GetByID returns a single invitation.
func (r *InvitationRepo) GetByID(ctx context.Context, id uint64) (*model.Invitation, error) {
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx,
		"SELECT "+invitationColumns+" FROM invitations WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByUser returns the user's invitations, newest first.
func (r *InvitationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Invitation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+invitationColumns+" FROM invitations WHERE user_id = ? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Update replaces the ten descriptive fields of the row owned by inv.UserID.
func (r *InvitationRepo) Update(ctx context.Context, inv *model.Invitation) error {
	inv.UpdatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE invitations SET man_name = ?, man_nickname = ?, man_address = ?, man_father = ?, man_mother = ?,
		        woman_name = ?, woman_nickname = ?, woman_address = ?, woman_father = ?, woman_mother = ?, updated_at = ?
		  WHERE id = ? AND user_id = ?`,
		inv.ManName, inv.ManNickname, inv.ManAddress, inv.ManFather, inv.ManMother,
		inv.WomanName, inv.WomanNickname, inv.WomanAddress, inv.WomanFather, inv.WomanMother, inv.UpdatedAt,
		inv.ID, inv.UserID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// DeleteByIDAndOwner removes the invitation; children go with it through the
// ON DELETE CASCADE foreign keys.
func (r *InvitationRepo) DeleteByIDAndOwner(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM invitations WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
