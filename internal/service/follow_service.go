package service

import (
	"context"

	"ovra/internal/models"
	"ovra/internal/repository"
)

// FollowService provides follow graph business logic. Follows are one-way
// and need no approval.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// ToggleFollow flips the follow state and returns the resulting state.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, models.NewValidationError("Cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, followingID)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, models.NewNotFoundError("User", followingID)
	}

	return s.followRepo.ToggleFollow(ctx, followerID, followingID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followingID)
}

func (s *FollowService) GetFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.mustGetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, userID, limit, offset)
}

func (s *FollowService) GetFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.mustGetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, userID, limit, offset)
}

func (s *FollowService) mustGetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", userID)
	}
	return user, nil
}
