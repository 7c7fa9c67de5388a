package service

import (
	"context"

	"ovra/internal/models"
	"ovra/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest sends a friend request to the target user. Any existing
// row between the pair, including a rejected one, blocks a new request.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetID uint) (*models.FriendRequest, error) {
	if userID == targetID {
		return nil, models.NewValidationError("Cannot send a friend request to yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("User", targetID)
	}

	existing, err := s.friendRepo.GetBetweenUsers(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendRequestStatusAccepted:
			return nil, models.NewConflictError("You are already friends")
		case models.FriendRequestStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewConflictError("Friend request already sent")
			}
			return nil, models.NewConflictError("You already have a pending friend request from this user")
		case models.FriendRequestStatusRejected:
			return nil, models.NewConflictError("A friend request between these users was declined")
		}
	}

	request := &models.FriendRequest{
		RequesterID: userID,
		TargetID:    targetID,
		Status:      models.FriendRequestStatusPending,
	}
	if err := s.friendRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, request.ID)
}

// GetPendingRequests returns pending requests addressed to the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.GetPendingReceived(ctx, userID)
}

// GetSentRequests returns pending requests the user has sent.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.GetPendingSent(ctx, userID)
}

// RespondToRequest accepts or rejects a pending request. Only the target may
// respond, and the decision is terminal.
func (s *FriendService) RespondToRequest(ctx context.Context, userID, requestID uint, accept bool) (*models.FriendRequest, error) {
	request, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.TargetID != userID {
		return nil, models.NewForbiddenError("You can only respond to friend requests sent to you")
	}
	if request.Status != models.FriendRequestStatusPending {
		return nil, models.NewConflictError("Friend request has already been resolved")
	}

	status := models.FriendRequestStatusRejected
	if accept {
		status = models.FriendRequestStatusAccepted
	}
	if err := s.friendRepo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, requestID)
}

// GetFriends lists the user's accepted friends.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// RemoveFriend ends an accepted friendship. The row is deleted, so either
// user may request again afterwards.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	existing, err := s.friendRepo.GetBetweenUsers(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if existing == nil || existing.Status != models.FriendRequestStatusAccepted {
		return models.NewNotFoundError("Friendship", friendID)
	}
	return s.friendRepo.RemoveFriendship(ctx, userID, friendID)
}

// GetFriendshipStatus reports the relationship from the viewer's perspective.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, viewerID, otherID uint) (string, error) {
	if viewerID == otherID {
		return models.FriendshipNone, nil
	}

	existing, err := s.friendRepo.GetBetweenUsers(ctx, viewerID, otherID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return models.FriendshipNone, nil
	}

	switch existing.Status {
	case models.FriendRequestStatusAccepted:
		return models.FriendshipFriends, nil
	case models.FriendRequestStatusPending:
		if existing.RequesterID == viewerID {
			return models.FriendshipPendingSent, nil
		}
		return models.FriendshipPendingReceived, nil
	default:
		// Rejected reads as no relationship, but still blocks new requests.
		return models.FriendshipNone, nil
	}
}
