package server

import (
	"ovra/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest handles POST /api/friend-requests
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req struct {
		TargetID uint `json:"targetId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.friendService.SendFriendRequest(c.Context(), currentUserID(c), req.TargetID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetFriendRequests handles GET /api/friend-requests. The default lists
// pending requests received; ?type=sent lists requests the caller made.
func (s *Server) GetFriendRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var (
		requests []models.FriendRequest
		err      error
	)
	if c.Query("type") == "sent" {
		requests, err = s.friendService.GetSentRequests(c.Context(), userID)
	} else {
		requests, err = s.friendService.GetPendingRequests(c.Context(), userID)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(requests)
}

// RespondToFriendRequest handles PUT /api/friend-requests/:id. Only the
// target of a pending request may accept or reject it.
func (s *Server) RespondToFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Status != string(models.FriendRequestStatusAccepted) &&
		req.Status != string(models.FriendRequestStatusRejected) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Status must be accepted or rejected"))
	}

	accept := req.Status == string(models.FriendRequestStatusAccepted)
	request, err := s.friendService.RespondToRequest(c.Context(), currentUserID(c), requestID, accept)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(request)
}

// GetFriends handles GET /api/friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.GetFriends(c.Context(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(friends)
}

// RemoveFriend handles DELETE /api/friends/:userId
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	friendID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RemoveFriend(c.Context(), currentUserID(c), friendID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}
