package filestore

import (
	"context"
	"testing"

	"ovra/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	return store, dir
}

func seedUser(t *testing.T, store *Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash", DisplayName: username}
	require.NoError(t, NewUserStore(store).Create(context.Background(), user))
	return user
}

func TestUserStore_CreateAndLookup(t *testing.T) {
	store, _ := newTestRepos(t)
	users := NewUserStore(store)
	ctx := context.Background()

	created := seedUser(t, store, "ada")
	assert.NotZero(t, created.ID)

	found, err := users.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hash", found.Password)

	missing, err := users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	store, _ := newTestRepos(t)
	users := NewUserStore(store)
	ctx := context.Background()

	seedUser(t, store, "ada")
	err := users.Create(ctx, &models.User{Username: "ada", Password: "hash"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestUserStore_PersistsAcrossReopen(t *testing.T) {
	store, dir := newTestRepos(t)
	seedUser(t, store, "ada")

	reopened, err := Open(dir)
	require.NoError(t, err)
	found, err := NewUserStore(reopened).GetByUsername(context.Background(), "ada")
	require.NoError(t, err)
	require.NotNil(t, found)
}

func TestPostStore_FeedDecoration(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	posts := NewPostStore(store)
	engagements := NewEngagementStore(store)

	author := seedUser(t, store, "author")
	viewer := seedUser(t, store, "viewer")

	post := &models.Post{AuthorID: author.ID, Content: "hello", Tags: models.StringArray{"retro"}}
	require.NoError(t, posts.Create(ctx, post))

	liked, err := engagements.ToggleLike(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	comments := NewCommentStore(store)
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, AuthorID: viewer.ID, Content: "nice"}))

	got, err := posts.GetByID(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "author", got.Author.Username)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.True(t, got.IsLiked)
	assert.False(t, got.IsBookmarked)

	// Anonymous viewers get counters but no viewer flags.
	anon, err := posts.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, anon.LikesCount)
	assert.False(t, anon.IsLiked)
}

func TestPostStore_QuoteResolutionAndDeleteDetach(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	posts := NewPostStore(store)

	author := seedUser(t, store, "author")

	original := &models.Post{AuthorID: author.ID, Content: "original"}
	require.NoError(t, posts.Create(ctx, original))

	quote := &models.Post{AuthorID: author.ID, Content: "look at this", QuotedPostID: &original.ID}
	require.NoError(t, posts.Create(ctx, quote))

	got, err := posts.GetByID(ctx, quote.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, got.QuotedPost)
	assert.Equal(t, "original", got.QuotedPost.Content)

	require.NoError(t, posts.Delete(ctx, original.ID))

	got, err = posts.GetByID(ctx, quote.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, got.QuotedPostID)
	assert.Nil(t, got.QuotedPost)
}

func TestPostStore_TrendingTags(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	posts := NewPostStore(store)
	author := seedUser(t, store, "author")

	for _, tags := range [][]string{{"retro", "synth"}, {"retro"}, {"wave"}} {
		require.NoError(t, posts.Create(ctx, &models.Post{AuthorID: author.ID, Content: "p", Tags: tags}))
	}

	trending, err := posts.TrendingTags(ctx, 2)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, models.TrendingTag{Tag: "retro", Count: 2}, trending[0])
	assert.Equal(t, "synth", trending[1].Tag)
}

func TestPostStore_GetByAuthorsAndTag(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	posts := NewPostStore(store)
	u1 := seedUser(t, store, "u1")
	u2 := seedUser(t, store, "u2")

	require.NoError(t, posts.Create(ctx, &models.Post{AuthorID: u1.ID, Content: "a", Tags: models.StringArray{"retro"}}))
	require.NoError(t, posts.Create(ctx, &models.Post{AuthorID: u2.ID, Content: "b"}))

	byAuthors, err := posts.GetByAuthors(ctx, []uint{u1.ID}, 0, 20, 0)
	require.NoError(t, err)
	require.Len(t, byAuthors, 1)
	assert.Equal(t, "a", byAuthors[0].Content)

	empty, err := posts.GetByAuthors(ctx, nil, 0, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	tagged, err := posts.GetByTag(ctx, "retro", 0, 20, 0)
	require.NoError(t, err)
	require.Len(t, tagged, 1)

	found, err := posts.Search(ctx, "RET", 0, 20, 0)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestEngagementStore_ToggleRoundTrip(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	posts := NewPostStore(store)
	engagements := NewEngagementStore(store)

	author := seedUser(t, store, "author")
	post := &models.Post{AuthorID: author.ID, Content: "p"}
	require.NoError(t, posts.Create(ctx, post))

	on, err := engagements.ToggleBookmark(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, on)

	saved, err := engagements.GetBookmarkedPosts(ctx, author.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].IsBookmarked)

	off, err := engagements.ToggleBookmark(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, off)

	saved, err = engagements.GetBookmarkedPosts(ctx, author.ID, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestFollowStore_Toggle(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	follows := NewFollowStore(store)

	u1 := seedUser(t, store, "u1")
	u2 := seedUser(t, store, "u2")

	on, err := follows.ToggleFollow(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, on)

	followers, err := follows.GetFollowers(ctx, u2.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "u1", followers[0].Username)

	ids, err := follows.GetFollowingIDs(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{u2.ID}, ids)

	off, err := follows.ToggleFollow(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, off)

	count, err := follows.CountFollowers(ctx, u2.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFriendStore_Lifecycle(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	friends := NewFriendStore(store)

	u1 := seedUser(t, store, "u1")
	u2 := seedUser(t, store, "u2")

	request := &models.FriendRequest{RequesterID: u1.ID, TargetID: u2.ID, Status: models.FriendRequestStatusPending}
	require.NoError(t, friends.Create(ctx, request))

	err := friends.Create(ctx, &models.FriendRequest{RequesterID: u1.ID, TargetID: u2.ID, Status: models.FriendRequestStatusPending})
	require.Error(t, err)

	between, err := friends.GetBetweenUsers(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	require.NotNil(t, between)

	require.NoError(t, friends.UpdateStatus(ctx, request.ID, models.FriendRequestStatusAccepted))

	list, err := friends.GetFriends(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].Username)

	count, err := friends.CountFriends(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, friends.RemoveFriendship(ctx, u1.ID, u2.ID))
	between, err = friends.GetBetweenUsers(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.Nil(t, between)
}

func TestNotificationStore_MarkRead(t *testing.T) {
	store, _ := newTestRepos(t)
	ctx := context.Background()
	notifications := NewNotificationStore(store)

	u1 := seedUser(t, store, "u1")
	u2 := seedUser(t, store, "u2")

	batch := []models.Notification{
		{UserID: u1.ID, AuthorID: u2.ID, Type: models.NotificationTypeNewPost, Title: "New post from u2"},
		{UserID: u1.ID, AuthorID: u2.ID, Type: models.NotificationTypeNewPost, Title: "New post from u2"},
	}
	require.NoError(t, notifications.CreateBatch(ctx, batch))

	list, err := notifications.GetForUser(ctx, u1.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u2", list[0].Author.Username)

	require.NoError(t, notifications.MarkRead(ctx, u1.ID, list[0].ID))

	// A user cannot mark someone else's notification.
	err = notifications.MarkRead(ctx, u2.ID, list[1].ID)
	require.Error(t, err)

	unread, err := notifications.UnreadCount(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	updated, err := notifications.MarkAllRead(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
}

func TestMessageStore_Unsupported(t *testing.T) {
	repos, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = repos.Messages.Create(ctx, &models.Message{SenderID: 1, ReceiverID: 2, Content: "hi"})
	require.Error(t, err)

	conversations, err := repos.Messages.GetConversations(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}
