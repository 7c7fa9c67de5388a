package service

import (
	"context"
	"errors"
	"testing"

	"ovra/internal/models"
	"ovra/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	listFn            func(context.Context, uint, int, int) ([]models.Post, error)
	getByTagFn        func(context.Context, string, uint, int, int) ([]models.Post, error)
	getByAuthorFn     func(context.Context, uint, uint, repository.QuoteFilter, int, int) ([]models.Post, error)
	getByAuthorsFn    func(context.Context, []uint, uint, int, int) ([]models.Post, error)
	searchFn          func(context.Context, string, uint, int, int) ([]models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	updateSentimentFn func(context.Context, uint, int, int) error
	trendingTagsFn    func(context.Context, int) ([]models.TrendingTag, error)
	countByAuthorFn   func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.listFn(ctx, viewerID, limit, offset)
}
func (s *postRepoStub) GetByTag(ctx context.Context, tag string, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.getByTagFn(ctx, tag, viewerID, limit, offset)
}
func (s *postRepoStub) GetByAuthor(ctx context.Context, authorID, viewerID uint, filter repository.QuoteFilter, limit, offset int) ([]models.Post, error) {
	return s.getByAuthorFn(ctx, authorID, viewerID, filter, limit, offset)
}
func (s *postRepoStub) GetByAuthors(ctx context.Context, authorIDs []uint, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.getByAuthorsFn(ctx, authorIDs, viewerID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, query string, viewerID uint, limit, offset int) ([]models.Post, error) {
	return s.searchFn(ctx, query, viewerID, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) UpdateSentiment(ctx context.Context, id uint, score, confidence int) error {
	return s.updateSentimentFn(ctx, id, score, confidence)
}
func (s *postRepoStub) TrendingTags(ctx context.Context, limit int) ([]models.TrendingTag, error) {
	return s.trendingTagsFn(ctx, limit)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1}, nil
		},
		listFn:            func(_ context.Context, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		getByTagFn:        func(_ context.Context, _ string, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		getByAuthorFn: func(_ context.Context, _, _ uint, _ repository.QuoteFilter, _, _ int) ([]models.Post, error) {
			return nil, nil
		},
		getByAuthorsFn:    func(_ context.Context, _ []uint, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		searchFn:          func(_ context.Context, _ string, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		updateSentimentFn: func(_ context.Context, _ uint, _, _ int) error { return nil },
		trendingTagsFn:    func(_ context.Context, _ int) ([]models.TrendingTag, error) { return nil, nil },
		countByAuthorFn:   func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	toggleLikeFn         func(context.Context, uint, uint) (bool, error)
	toggleBookmarkFn     func(context.Context, uint, uint) (bool, error)
	isLikedFn            func(context.Context, uint, uint) (bool, error)
	isBookmarkedFn       func(context.Context, uint, uint) (bool, error)
	getLikedPostsFn      func(context.Context, uint, int, int) ([]models.Post, error)
	getBookmarkedPostsFn func(context.Context, uint, int, int) ([]models.Post, error)
	countLikesFn         func(context.Context, uint) (int64, error)
}

func (s *engagementRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *engagementRepoStub) ToggleBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleBookmarkFn(ctx, userID, postID)
}
func (s *engagementRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *engagementRepoStub) IsBookmarked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isBookmarkedFn(ctx, userID, postID)
}
func (s *engagementRepoStub) GetLikedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.getLikedPostsFn(ctx, userID, limit, offset)
}
func (s *engagementRepoStub) GetBookmarkedPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.getBookmarkedPostsFn(ctx, userID, limit, offset)
}
func (s *engagementRepoStub) CountLikes(ctx context.Context, postID uint) (int64, error) {
	return s.countLikesFn(ctx, postID)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		toggleLikeFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		toggleBookmarkFn:     func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn:            func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		isBookmarkedFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getLikedPostsFn:      func(_ context.Context, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		getBookmarkedPostsFn: func(_ context.Context, _ uint, _, _ int) ([]models.Post, error) { return nil, nil },
		countLikesFn:         func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	toggleFollowFn    func(context.Context, uint, uint) (bool, error)
	isFollowingFn     func(context.Context, uint, uint) (bool, error)
	getFollowersFn    func(context.Context, uint, int, int) ([]models.User, error)
	getFollowingFn    func(context.Context, uint, int, int) ([]models.User, error)
	getFollowingIDsFn func(context.Context, uint) ([]uint, error)
	getFollowerIDsFn  func(context.Context, uint) ([]uint, error)
	countFollowersFn  func(context.Context, uint) (int64, error)
	countFollowingFn  func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.toggleFollowFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.getFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.getFollowingFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.getFollowingIDsFn(ctx, userID)
}
func (s *followRepoStub) GetFollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.getFollowerIDsFn(ctx, userID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		toggleFollowFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getFollowersFn:    func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		getFollowingFn:    func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		getFollowingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		getFollowerIDsFn:  func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		countFollowersFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	searchFn        func(context.Context, string, uint, int) ([]models.User, error)
	updateRoleFn    func(context.Context, uint, models.UserRole) error
	countFn         func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, query string, excludeID uint, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, excludeID, limit)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		searchFn:        func(_ context.Context, _ string, _ uint, _ int) ([]models.User, error) { return nil, nil },
		updateRoleFn:    func(_ context.Context, _ uint, _ models.UserRole) error { return nil },
		countFn:         func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// friendRepoStub is a stub for repository.FriendRepository.
type friendRepoStub struct {
	createFn             func(context.Context, *models.FriendRequest) error
	getByIDFn            func(context.Context, uint) (*models.FriendRequest, error)
	getBetweenUsersFn    func(context.Context, uint, uint) (*models.FriendRequest, error)
	getFriendsFn         func(context.Context, uint) ([]models.User, error)
	getPendingReceivedFn func(context.Context, uint) ([]models.FriendRequest, error)
	getPendingSentFn     func(context.Context, uint) ([]models.FriendRequest, error)
	updateStatusFn       func(context.Context, uint, models.FriendRequestStatus) error
	removeFriendshipFn   func(context.Context, uint, uint) error
	countFriendsFn       func(context.Context, uint) (int64, error)
}

func (s *friendRepoStub) Create(ctx context.Context, request *models.FriendRequest) error {
	return s.createFn(ctx, request)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	return s.getBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}
func (s *friendRepoStub) GetPendingReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.getPendingReceivedFn(ctx, userID)
}
func (s *friendRepoStub) GetPendingSent(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.getPendingSentFn(ctx, userID)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, requestID uint, status models.FriendRequestStatus) error {
	return s.updateStatusFn(ctx, requestID, status)
}
func (s *friendRepoStub) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	return s.removeFriendshipFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) CountFriends(ctx context.Context, userID uint) (int64, error) {
	return s.countFriendsFn(ctx, userID)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createFn: func(_ context.Context, _ *models.FriendRequest) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.FriendRequest, error) {
			return &models.FriendRequest{ID: id}, nil
		},
		getBetweenUsersFn:    func(_ context.Context, _, _ uint) (*models.FriendRequest, error) { return nil, nil },
		getFriendsFn:         func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		getPendingReceivedFn: func(_ context.Context, _ uint) ([]models.FriendRequest, error) { return nil, nil },
		getPendingSentFn:     func(_ context.Context, _ uint) ([]models.FriendRequest, error) { return nil, nil },
		updateStatusFn:       func(_ context.Context, _ uint, _ models.FriendRequestStatus) error { return nil },
		removeFriendshipFn:   func(_ context.Context, _, _ uint) error { return nil },
		countFriendsFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByPostFn  func(context.Context, uint) ([]models.Comment, error)
	deleteFn      func(context.Context, uint) error
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 1, PostID: 1}, nil
		},
		listByPostFn:  func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn               func(context.Context, *models.Message) error
	getBetweenUsersFn      func(context.Context, uint, uint, int, int) ([]models.Message, error)
	markConversationReadFn func(context.Context, uint, uint) (int64, error)
	getConversationsFn     func(context.Context, uint) ([]models.Conversation, error)
	unreadCountFn          func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) GetBetweenUsers(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	return s.getBetweenUsersFn(ctx, userID1, userID2, limit, offset)
}
func (s *messageRepoStub) MarkConversationRead(ctx context.Context, readerID, peerID uint) (int64, error) {
	return s.markConversationReadFn(ctx, readerID, peerID)
}
func (s *messageRepoStub) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.getConversationsFn(ctx, userID)
}
func (s *messageRepoStub) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.unreadCountFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:               func(_ context.Context, _ *models.Message) error { return nil },
		getBetweenUsersFn:      func(_ context.Context, _, _ uint, _, _ int) ([]models.Message, error) { return nil, nil },
		markConversationReadFn: func(_ context.Context, _, _ uint) (int64, error) { return 0, nil },
		getConversationsFn:     func(_ context.Context, _ uint) ([]models.Conversation, error) { return nil, nil },
		unreadCountFn:          func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

// assertForbiddenError asserts that err is an AppError with code FORBIDDEN.
func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

// assertConflictError asserts that err is an AppError with code CONFLICT.
func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "CONFLICT")
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
