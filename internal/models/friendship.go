package models

import (
	"time"
)

// FriendRequestStatus represents the status of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestStatusPending indicates a request awaiting a response.
	FriendRequestStatusPending FriendRequestStatus = "pending"
	// FriendRequestStatusAccepted indicates an accepted request; the two
	// users are friends.
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	// FriendRequestStatusRejected indicates a declined request. The row is
	// kept and blocks further requests between the pair.
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

// FriendRequest represents the friendship relationship between two users.
// At most one row exists per unordered user pair regardless of status.
type FriendRequest struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	RequesterID uint                `gorm:"not null;uniqueIndex:idx_friend_requests_pair" json:"requesterId"`
	TargetID    uint                `gorm:"not null;uniqueIndex:idx_friend_requests_pair" json:"targetId"`
	Status      FriendRequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Target    User `gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE" json:"target,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship status strings reported by the friendship-status endpoint.
const (
	FriendshipNone            = "none"
	FriendshipPendingSent     = "pending_sent"
	FriendshipPendingReceived = "pending_received"
	FriendshipFriends         = "friends"
)
