package models

import "time"

// Friendship represents a directed friend request between two users.
// The unique index on (requester_id, target_id) is the backstop against
// duplicate rows when two requests for the same pair race; the reverse
// ordering is checked in the service before insert.
type Friendship struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	RequesterID uint       `json:"requester_id" gorm:"not null;index:idx_friendship_pair,unique"`
	Requester   User       `json:"-" gorm:"foreignKey:RequesterID;constraint:OnDelete:RESTRICT"`
	TargetID    uint       `json:"target_id" gorm:"not null;index:idx_friendship_pair,unique"`
	Target      User       `json:"-" gorm:"foreignKey:TargetID;constraint:OnDelete:RESTRICT"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	RequestedAt time.Time  `json:"requested_at" gorm:"autoCreateTime"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// Friendship status values
const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
	FriendshipStatusRejected = "rejected"
	FriendshipStatusBlocked  = "blocked"
)

func (Friendship) TableName() string {
	return "friendships"
}

// OtherSide returns the id of the user on the opposite side of userID.
func (f *Friendship) OtherSide(userID uint) uint {
	if f.RequesterID == userID {
		return f.TargetID
	}
	return f.RequesterID
}

// SendFriendRequestBody is the request body for sending a friend request
type SendFriendRequestBody struct {
	TargetID uint `json:"target_id" validate:"required"`
}

// FriendView is one entry of the friends list: the other user annotated
// with the mutual-friend count and the date the relationship started.
type FriendView struct {
	FriendshipID       uint      `json:"friendship_id"`
	User               PublicUser `json:"user"`
	Status             string    `json:"status"`
	FriendsSince       time.Time `json:"friends_since"`
	MutualFriendsCount int       `json:"mutual_friends_count"`
}

// UserSearchResult is a search hit annotated with relationship flags
// relative to the searching user.
type UserSearchResult struct {
	User               PublicUser `json:"user"`
	IsFriend           bool       `json:"is_friend"`
	HasPendingRequest  bool       `json:"has_pending_request"`
	HasSentRequest     bool       `json:"has_sent_request"`
	MutualFriendsCount int        `json:"mutual_friends_count"`
}
