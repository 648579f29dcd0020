package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/staffdir/staffdir/pkg/model"
	"github.com/staffdir/staffdir/pkg/server/store"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

func TestConsumeShareLink_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	links := NewShareLinkStore(db)

	tokenHash := model.HashShareToken("some-token")
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE share_links").
		WithArgs("c-1", tokenHash).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "contact_id", "token_hash", "created_by", "created_at", "expires_at", "used_at", "uses_count", "max_uses"},
		).AddRow(int64(7), "c-1", tokenHash, "alice@example.com", now, nil, now, 1, 1))

	link, err := links.ConsumeShareLink("c-1", tokenHash)
	require.NoError(t, err)
	assert.Equal(t, int64(7), link.ID)
	assert.Equal(t, 1, link.UsesCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeShareLink_Gone(t *testing.T) {
	db, mock := setupTestDB(t)
	links := NewShareLinkStore(db)

	// Unknown, expired, and exhausted tokens all produce zero rows and the
	// same error.
	mock.ExpectQuery("UPDATE share_links").
		WithArgs("c-1", "nope").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "contact_id", "token_hash", "created_by", "created_at", "expires_at", "used_at", "uses_count", "max_uses"},
		))

	link, err := links.ConsumeShareLink("c-1", "nope")
	assert.Nil(t, link)
	assert.ErrorIs(t, err, store.ErrShareLinkGone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReapExpired(t *testing.T) {
	db, mock := setupTestDB(t)
	links := NewShareLinkStore(db)

	cutoff := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "share_links"`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	removed, err := links.ReapExpired(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
