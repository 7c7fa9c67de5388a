package seed

import (
	"context"
	"testing"

	"ovra/internal/filestore"
	"ovra/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_FileBackend(t *testing.T) {
	repos, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = Seed(ctx, repos, Options{
		NumUsers:   6,
		NumPosts:   20,
		SkipBcrypt: true,
		RandSeed:   1,
	})
	require.NoError(t, err)

	count, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	admin, err := repos.Users.GetByUsername(ctx, "ovra-admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.UserRoleAdmin, admin.Role)

	posts, err := repos.Posts.List(ctx, 0, 100, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 20)
}

func TestFactory_CreateQuote(t *testing.T) {
	repos, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	f := NewFactory(repos, Options{SkipBcrypt: true, RandSeed: 1})
	author, err := f.CreateUser(ctx)
	require.NoError(t, err)

	post, err := f.CreatePost(ctx, author)
	require.NoError(t, err)

	quote, err := f.CreateQuote(ctx, author, post)
	require.NoError(t, err)
	require.NotNil(t, quote.QuotedPostID)
	assert.Equal(t, post.ID, *quote.QuotedPostID)
}
