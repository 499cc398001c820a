package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"tourdiary/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func releaseRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "release_id", "user_id", "title", "state", "delete_status"})
	for i, id := range ids {
		rows.AddRow(i+1, id, "u-1", "Trip "+id, models.StateResolve, models.DeleteStatusVisible)
	}
	return rows
}

func userPreloadRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "user_name", "avatar"}).
		AddRow(1, "u-1", "traveler", "/uploads/a.png")
}

func TestReleaseRepository_GetByReleaseID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "releases" WHERE delete_status = $1 AND release_id = $2 ORDER BY "releases"."id" LIMIT $3`)).
			WithArgs(models.DeleteStatusVisible, "r-1", 1).
			WillReturnRows(releaseRows("r-1"))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."user_id" = $1`)).
			WithArgs("u-1").
			WillReturnRows(userPreloadRows())

		release, err := repo.GetByReleaseID(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, "r-1", release.ReleaseID)
		assert.Equal(t, "traveler", release.UserName, "author fields are flattened onto the release")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Soft Deleted Is Invisible", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "releases" WHERE delete_status = $1 AND release_id = $2`)).
			WithArgs(models.DeleteStatusVisible, "r-gone", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		release, err := repo.GetByReleaseID(ctx, "r-gone")
		assert.Nil(t, release)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReleaseRepository_GetByReleaseIDAny(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	// No delete_status clause: moderation and hard delete see every row.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "releases" WHERE release_id = $1 ORDER BY "releases"."id" LIMIT $2`)).
		WithArgs("r-1", 1).
		WillReturnRows(releaseRows("r-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."user_id" = $1`)).
		WithArgs("u-1").
		WillReturnRows(userPreloadRows())

	release, err := repo.GetByReleaseIDAny(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", release.ReleaseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "releases" WHERE delete_status = $1 AND state = $2 ORDER BY created_at DESC LIMIT $3`)).
		WithArgs(models.DeleteStatusVisible, models.StateResolve, 2).
		WillReturnRows(releaseRows("r-1", "r-2"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."user_id" = $1`)).
		WithArgs("u-1").
		WillReturnRows(userPreloadRows())

	releases, err := repo.List(context.Background(), 2, 0, models.StateResolve)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, "traveler", releases[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseRepository_SearchByTitle(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "releases" WHERE delete_status = $1 AND (title LIKE $2 AND state = $3) ORDER BY created_at DESC`)).
		WithArgs(models.DeleteStatusVisible, "%Guilin%", models.StateResolve).
		WillReturnRows(releaseRows("r-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."user_id" = $1`)).
		WithArgs("u-1").
		WillReturnRows(userPreloadRows())

	releases, err := repo.SearchByTitle(context.Background(), "Guilin", models.StateResolve)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseRepository_GetByUserIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	t.Run("Empty Input Short-Circuits", func(t *testing.T) {
		releases, err := repo.GetByUserIDs(context.Background(), nil, models.StateResolve)
		require.NoError(t, err)
		assert.Empty(t, releases)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "releases" WHERE delete_status = $1 AND (user_id IN ($2) AND state = $3) ORDER BY created_at DESC`)).
			WithArgs(models.DeleteStatusVisible, "u-1", models.StateResolve).
			WillReturnRows(releaseRows("r-1"))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."user_id" = $1`)).
			WithArgs("u-1").
			WillReturnRows(userPreloadRows())

		releases, err := repo.GetByUserIDs(context.Background(), []string{"u-1"}, models.StateResolve)
		require.NoError(t, err)
		require.Len(t, releases, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReleaseRepository_UpdateState(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "releases" SET`).
		WithArgs("Blurry photos", models.StateReject, sqlmock.AnyArg(), "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateState(context.Background(), "r-1", models.StateReject, "Blurry photos")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseRepository_UpdateDeleteStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "releases" SET`).
		WithArgs(models.DeleteStatusDeleted, sqlmock.AnyArg(), "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateDeleteStatus(context.Background(), "r-1", models.DeleteStatusDeleted)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReleaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "releases" WHERE release_id = $1`)).
		WithArgs("r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "r-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
