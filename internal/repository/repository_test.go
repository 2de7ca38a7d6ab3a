package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/undangan-builder/internal/model"
)

func TestSaveTemplateDuplicateIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_templates")).
		WithArgs(uint64(7), "tpl-1", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7-tpl-1'"})

	saved, err := NewSavedTemplateRepo(db).Save(context.Background(), 7, "tpl-1")
	assert.Nil(t, saved)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveTemplateReturnsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO saved_templates")).
		WillReturnResult(sqlmock.NewResult(5, 1))

	saved, err := NewSavedTemplateRepo(db).Save(context.Background(), 7, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), saved.ID)
	assert.Equal(t, "tpl-1", saved.TemplateID)
}

func templateRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "type", "file_path", "thumbnail_path", "price", "flag_active", "created_at", "updated_at"})
}

func TestListActiveTemplatesPaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM templates WHERE flag_active = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("FROM templates WHERE flag_active = 1 ORDER BY created_at DESC, id LIMIT ? OFFSET ?")).
		WithArgs(10, 10).
		WillReturnRows(templateRows().
			AddRow("a", "Rustic", "Kayu", "free", "templates/1.zip", nil, 0, true, now, now).
			AddRow("b", "Royal", "Emas", "premium", "templates/2.zip", "images/2.png", 150000, true, now, now))

	items, total, err := NewTemplateRepo(db).ListActive(context.Background(), Page{Number: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, items, 2)
	assert.Nil(t, items[0].ThumbnailPath)
	require.NotNil(t, items[1].ThumbnailPath)
	assert.Equal(t, "images/2.png", *items[1].ThumbnailPath)
	assert.Equal(t, int64(150000), items[1].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTemplateAssignsUUID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO templates")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tpl := &model.Template{Title: "Rustic", Type: model.TemplateFree, FilePath: "templates/1.zip", FlagActive: true}
	require.NoError(t, NewTemplateRepo(db).Create(context.Background(), tpl))
	assert.Len(t, tpl.ID, 36)
	assert.False(t, tpl.CreatedAt.IsZero())
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 0, PerPage: 10}.Offset())
	assert.Equal(t, 0, Page{Number: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, Page{Number: 3, PerPage: 10}.Offset())
}

func TestEventUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewEventRepo(db).Update(context.Background(), &model.Event{ID: 4, Title: "Akad"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBankListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM banks WHERE flag_active = 1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image", "flag_active", "created_at", "updated_at"}).
			AddRow(1, "BCA", "images/1.png", true, now, now))

	banks, err := NewBankRepo(db).ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "BCA", banks[0].Name)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Budi", "budi@example.com", nil, sqlmock.AnyArg(), model.RoleUser, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err = NewUserRepo(db).Create(context.Background(), NewUser{
		Name: " Budi ", Email: " Budi@Example.com ", Password: "rahasia123", Role: model.RoleUser,
	}, 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeByHashOnlyOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	revoke := regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL")
	mock.ExpectExec(revoke).WithArgs(sqlmock.AnyArg(), "h").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(revoke).WithArgs(sqlmock.AnyArg(), "h").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)
	assert.NoError(t, repo.RevokeByHash(context.Background(), "h"))
	assert.ErrorIs(t, repo.RevokeByHash(context.Background(), "h"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
