package repository

import (
	"context"
	"fmt"
	"time"

	"ovra/internal/cache"
	"ovra/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message operations.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetBetweenUsers(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, readerID, peerID uint) (int64, error)
	GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository instance.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	cache.Invalidate(ctx, cache.ConversationsKey(message.SenderID))
	cache.Invalidate(ctx, cache.ConversationsKey(message.ReceiverID))
	return nil
}

// GetBetweenUsers returns the thread between two users, newest first.
func (r *messageRepository) GetBetweenUsers(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID1, userID2, userID2, userID1).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// MarkConversationRead stamps every unread message from peer to reader.
// Idempotent; returns the number of rows updated.
func (r *messageRepository) MarkConversationRead(ctx context.Context, readerID, peerID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", readerID, peerID).
		Update("read_at", time.Now())
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark conversation read: %w", res.Error)
	}
	cache.Invalidate(ctx, cache.ConversationsKey(readerID))
	return res.RowsAffected, nil
}

// GetConversations returns one entry per peer with the latest message and the
// reader's unread count, ordered by most recent activity.
func (r *messageRepository) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var lastIDs []uint
	err := r.db.WithContext(ctx).Raw(`
		SELECT MAX(id) FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END`,
		userID, userID, userID,
	).Scan(&lastIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find conversations: %w", err)
	}
	if len(lastIDs) == 0 {
		return []models.Conversation{}, nil
	}

	var lastMessages []models.Message
	err = r.db.WithContext(ctx).
		Where("id IN ?", lastIDs).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Find(&lastMessages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation heads: %w", err)
	}

	conversations := make([]models.Conversation, 0, len(lastMessages))
	for _, msg := range lastMessages {
		peer := msg.Sender
		peerID := msg.SenderID
		if msg.SenderID == userID {
			peer = msg.Receiver
			peerID = msg.ReceiverID
		}

		var unread int64
		err = r.db.WithContext(ctx).
			Model(&models.Message{}).
			Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", userID, peerID).
			Count(&unread).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count unread messages: %w", err)
		}

		conversations = append(conversations, models.Conversation{
			User:        peer,
			LastMessage: msg,
			UnreadCount: unread,
		})
	}
	return conversations, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("receiver_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
