package repository

import (
	"context"
	"regexp"
	"testing"

	"ovra/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Content: "Nice post!", PostID: 1, AuthorID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	commentRows := sqlmock.NewRows([]string{"id", "post_id", "author_id", "content"}).
		AddRow(1, 5, 2, "first").
		AddRow(2, 5, 3, "second")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 ORDER BY created_at ASC`)).
		WithArgs(5).
		WillReturnRows(commentRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs(2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "a").AddRow(3, "b"))

	comments, err := repo.ListByPost(ctx, 5)
	assert.NoError(t, err)
	if assert.Len(t, comments, 2) {
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "a", comments[0].Author.Username)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1`)).
		WithArgs(42, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Delete(ctx, 42)
	assert.Error(t, err)

	appErr, ok := err.(*models.AppError)
	if assert.True(t, ok) {
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
