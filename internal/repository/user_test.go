package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "user_name"}).
			AddRow(1, "u-1", "traveler")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE user_id = $1 ORDER BY "users"."id" LIMIT $2`)).
			WithArgs("u-1", 1).
			WillReturnRows(rows)

		user, err := repo.GetByUserID(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "traveler", user.UserName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE user_id = $1`)).
			WithArgs("u-ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByUserID(ctx, "u-ghost")
		assert.Nil(t, user)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByUserName(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "user_name"}).
		AddRow(1, "u-1", "traveler")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE user_name = $1`)).
		WithArgs("traveler", 1).
		WillReturnRows(rows)

	user, err := repo.GetByUserName(context.Background(), "traveler")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SearchByName(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "user_name"}).
		AddRow(1, "u-1", "xiaoming").
		AddRow(2, "u-2", "daming")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE user_name LIKE $1`)).
		WithArgs("%ming%").
		WillReturnRows(rows)

	users, err := repo.SearchByName(context.Background(), "ming")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Like(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	// The conflict clause swallows duplicate inserts without an error.
	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs("u-1", "r-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Like(context.Background(), "u-1", "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Unlike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND release_id = $2`)).
		WithArgs("u-1", "r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Unlike(context.Background(), "u-1", "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetLikedReleaseIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"release_id"}).
		AddRow("r-1").
		AddRow("r-2")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "release_id" FROM "likes" WHERE user_id = $1 ORDER BY created_at ASC`)).
		WithArgs("u-1").
		WillReturnRows(rows)

	ids, err := repo.GetLikedReleaseIDs(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-1", "r-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Follow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs("u-1", "u-2").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Follow(context.Background(), "u-1", "u-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetFollowedUserIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"followee_id"}).AddRow("u-2")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "followee_id" FROM "follows" WHERE follower_id = $1 ORDER BY created_at ASC`)).
		WithArgs("u-1").
		WillReturnRows(rows)

	ids, err := repo.GetFollowedUserIDs(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
