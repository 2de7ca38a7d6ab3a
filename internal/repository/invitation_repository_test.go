package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/undangan-builder/internal/model"
)

func newInvitation() *model.Invitation {
	inv := &model.Invitation{
		UserID:        7,
		TemplateID:    "0b9c3f5e-2f4e-4c39-9a56-5b4f4d8e7a11",
		ManName:       "Budi Santoso",
		ManNickname:   "Budi",
		WomanName:     "Siti Aminah",
		WomanNickname: "Siti",
	}
	ApplyDefaults(inv)
	return inv
}

func TestCreateWithSeedCommitsAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invitations")).
		WithArgs(uint64(7), "0b9c3f5e-2f4e-4c39-9a56-5b4f4d8e7a11", DefaultCoverImage,
			"Budi Santoso", "Budi", DefaultIG, DefaultAddress, DefaultFather, DefaultMother,
			"Siti Aminah", "Siti", DefaultIG, DefaultAddress, DefaultFather, DefaultMother,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs(uint64(11), "Acara Pernikahan", "Deskripsi acara pernikahan", sqlmock.AnyArg(), "default-icon.png", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stories")).
		WithArgs(uint64(11), "Cerita Cinta", "Bagaimana kami bertemu dan jatuh cinta", "default-story.jpg", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO gallery_images")).
		WithArgs(uint64(11), "default-gallery.jpg", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bank_accounts")).
		WithArgs(uint64(11), "John Doe", "1234567890", "Bank ABC", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(51, 1))
	mock.ExpectCommit()

	inv := newInvitation()
	seed := DefaultSeed(time.Now())
	require.NoError(t, NewInvitationRepo(db).CreateWithSeed(context.Background(), inv, &seed))

	assert.Equal(t, uint64(11), inv.ID)
	assert.Equal(t, uint64(21), seed.Event.ID)
	assert.Equal(t, uint64(11), seed.BankAccount.InvitationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithSeedRollsBackOnAnyChildFailure(t *testing.T) {
	children := []string{"INSERT INTO events", "INSERT INTO stories", "INSERT INTO gallery_images", "INSERT INTO bank_accounts"}

	for failAt, failing := range children {
		t.Run(failing, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invitations")).WillReturnResult(sqlmock.NewResult(11, 1))
			for i := 0; i < failAt; i++ {
				mock.ExpectExec(regexp.QuoteMeta(children[i])).WillReturnResult(sqlmock.NewResult(int64(100+i), 1))
			}
			mock.ExpectExec(regexp.QuoteMeta(failing)).WillReturnError(errors.New("constraint violated"))
			mock.ExpectRollback()

			seed := DefaultSeed(time.Now())
			err = NewInvitationRepo(db).CreateWithSeed(context.Background(), newInvitation(), &seed)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "constraint violated")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateWithSeedRollsBackWhenInvitationInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invitations")).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	seed := DefaultSeed(time.Now())
	err = NewInvitationRepo(db).CreateWithSeed(context.Background(), newInvitation(), &seed)
	require.ErrorContains(t, err, "insert invitation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnerOfMissingInvitation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM invitations WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err = NewInvitationRepo(db).OwnerOf(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvitationScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE invitations SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inv := newInvitation()
	inv.ID = 3
	err = NewInvitationRepo(db).Update(context.Background(), inv)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
