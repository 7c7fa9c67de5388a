package models

import (
	"time"
)

// Message is a direct message between two users. ReadAt stays nil until the
// receiver opens the conversation.
type Message struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	SenderID    uint       `gorm:"not null;index" json:"senderId"`
	ReceiverID  uint       `gorm:"not null;index" json:"receiverId"`
	Sender      User       `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Receiver    User       `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"receiver,omitempty"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	MessageType string     `gorm:"type:varchar(20);default:'text'" json:"messageType"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Conversation summarizes the message thread with a single peer.
type Conversation struct {
	User        User    `json:"user"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int64   `json:"unreadCount"`
}
