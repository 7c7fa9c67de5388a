package service

import (
	"context"
	"strings"

	"ovra/internal/cache"
	"ovra/internal/models"
	"ovra/internal/repository"
	"ovra/internal/validation"
)

// UserService provides profile and account business logic.
type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	friendRepo repository.FriendRepository
}

type UpdateProfileInput struct {
	UserID          uint
	DisplayName     *string
	Bio             *string
	Location        *string
	Website         *string
	ProfileImageURL *string
	Email           *string
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	friendRepo repository.FriendRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		friendRepo: friendRepo,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SearchUsers matches usernames and display names, excluding the searcher.
func (s *UserService) SearchUsers(ctx context.Context, query string, searcherID uint) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, searcherID, 20)
}

// GetUserStats aggregates profile counters, cached briefly.
func (s *UserService) GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	var stats models.UserStats
	err := cache.Aside(ctx, cache.UserStatsKey(userID), &stats, cache.UserStatsTTL, func() error {
		posts, err := s.postRepo.CountByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		followers, err := s.followRepo.CountFollowers(ctx, userID)
		if err != nil {
			return err
		}
		following, err := s.followRepo.CountFollowing(ctx, userID)
		if err != nil {
			return err
		}
		friends, err := s.friendRepo.CountFriends(ctx, userID)
		if err != nil {
			return err
		}
		stats = models.UserStats{
			PostsCount:     posts,
			FollowersCount: followers,
			FollowingCount: following,
			FriendsCount:   friends,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 50

	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if len(name) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 50 characters)")
		}
		user.DisplayName = name
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		user.Website = strings.TrimSpace(*in.Website)
	}
	if in.ProfileImageURL != nil {
		user.ProfileImageURL = strings.TrimSpace(*in.ProfileImageURL)
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			user.Email = nil
		} else {
			if err := validation.ValidateEmail(email); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, models.NewConflictError("Email already in use")
			}
			user.Email = &email
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole grants or revokes the admin role.
func (s *UserService) SetRole(ctx context.Context, targetID uint, role models.UserRole) (*models.User, error) {
	if role != models.UserRoleUser && role != models.UserRoleAdmin {
		return nil, models.NewValidationError("Invalid role")
	}
	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, targetID)
}

// IsAdmin reports whether the user holds the admin role.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsAdmin(), nil
}
