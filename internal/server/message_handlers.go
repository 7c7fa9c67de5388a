package server

import (
	"ovra/internal/models"
	"ovra/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetConversations handles GET /api/messages/conversations and lists the
// caller's conversations, most recent message first.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.messageService.GetConversations(c.Context(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(conversations)
}

// SendMessage handles POST /api/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID uint   `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID:   currentUserID(c),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetConversation handles GET /api/messages/:userId. Fetching a
// conversation marks messages from the peer as read.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	peerID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	messages, err := s.messageService.GetConversation(c.Context(), currentUserID(c), peerID, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(messages)
}
