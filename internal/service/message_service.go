package service

import (
	"context"
	"strings"

	"ovra/internal/models"
	"ovra/internal/repository"
)

const maxMessageLen = 2000

// MessageService provides direct messaging business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot send a message to yourself")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}

	receiver, err := s.userRepo.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, models.NewNotFoundError("User", in.ReceiverID)
	}

	message := &models.Message{
		SenderID:    in.SenderID,
		ReceiverID:  in.ReceiverID,
		Content:     content,
		MessageType: "text",
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetConversation returns the thread with a peer and marks the peer's
// messages as read.
func (s *MessageService) GetConversation(ctx context.Context, userID, peerID uint, limit, offset int) ([]models.Message, error) {
	peer, err := s.userRepo.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}
	if peer == nil {
		return nil, models.NewNotFoundError("User", peerID)
	}

	messages, err := s.messageRepo.GetBetweenUsers(ctx, userID, peerID, limit, offset)
	if err != nil {
		return nil, err
	}

	if _, err := s.messageRepo.MarkConversationRead(ctx, userID, peerID); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetConversations lists the user's conversation summaries.
func (s *MessageService) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.messageRepo.GetConversations(ctx, userID)
}

// UnreadCount reports the user's total unread messages.
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}
