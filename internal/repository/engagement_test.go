package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestEngagementRepository_ToggleLike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	t.Run("Like when not yet liked", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (user_id, post_id, created_at) VALUES ($1, $2, NOW()) ON CONFLICT (user_id, post_id) DO NOTHING`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(1, 1))

		liked, err := repo.ToggleLike(ctx, 1, 2)
		assert.NoError(t, err)
		assert.True(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unlike when already liked", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		liked, err := repo.ToggleLike(ctx, 1, 2)
		assert.NoError(t, err)
		assert.False(t, liked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngagementRepository_ToggleBookmark(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookmarks" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(1, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO bookmarks (user_id, post_id, created_at) VALUES ($1, $2, NOW()) ON CONFLICT (user_id, post_id) DO NOTHING`)).
		WithArgs(1, 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	bookmarked, err := repo.ToggleBookmark(ctx, 1, 3)
	assert.NoError(t, err)
	assert.True(t, bookmarked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_IsLiked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE user_id = $1 AND post_id = $2`)).
		WithArgs(5, 9).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	liked, err := repo.IsLiked(ctx, 5, 9)
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRepository_GetBookmarkedPosts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	postRows := sqlmock.NewRows([]string{"id", "author_id", "content", "likes_count", "comments_count", "is_liked", "is_bookmarked"}).
		AddRow(4, 2, "saved post", 1, 0, false, true)
	mock.ExpectQuery(`JOIN bookmarks e ON e\.post_id = posts\.id`).
		WillReturnRows(postRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "saver"))

	posts, err := repo.GetBookmarkedPosts(ctx, 1, 20, 0)
	assert.NoError(t, err)
	if assert.Len(t, posts, 1) {
		assert.True(t, posts[0].IsBookmarked)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
