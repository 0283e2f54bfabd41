package models

import "time"

// Message is a direct message between two confirmed friends. Conversations
// are not stored; they are derived from the message table at query time.
type Message struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	SenderID   uint       `json:"sender_id" gorm:"not null;index"`
	Sender     User       `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:RESTRICT"`
	ReceiverID uint       `json:"receiver_id" gorm:"not null;index"`
	Receiver   User       `json:"-" gorm:"foreignKey:ReceiverID;constraint:OnDelete:RESTRICT"`
	Content    string     `json:"content" gorm:"size:2000;not null"`
	SentAt     time.Time  `json:"sent_at" gorm:"index"`
	IsRead     bool       `json:"is_read" gorm:"default:false"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

// SendMessageBody is the request body for sending a message
type SendMessageBody struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// MessageView is a message annotated for the viewing user.
type MessageView struct {
	ID                  uint      `json:"id"`
	SenderID            uint      `json:"sender_id"`
	SenderName          string    `json:"sender_name"`
	ReceiverID          uint      `json:"receiver_id"`
	Content             string    `json:"content"`
	SentAt              time.Time `json:"sent_at"`
	IsRead              bool      `json:"is_read"`
	IsSentByCurrentUser bool      `json:"is_sent_by_current_user"`
}

// ConversationPreview is one inbox entry: a conversation partner with the
// latest message and the viewer's unread count for that partner.
type ConversationPreview struct {
	Partner                     PublicUser `json:"partner"`
	LastMessage                 string     `json:"last_message"`
	LastMessageTime             time.Time  `json:"last_message_time"`
	UnreadCount                 int64      `json:"unread_count"`
	IsLastMessageFromCurrentUser bool      `json:"is_last_message_from_current_user"`
}

// Inbox is the full conversation listing for a user.
type Inbox struct {
	Conversations    []ConversationPreview `json:"conversations"`
	TotalUnreadCount int64                 `json:"total_unread_count"`
}

// Chat is an opened conversation with one friend.
type Chat struct {
	Friend   PublicUser    `json:"friend"`
	Messages []MessageView `json:"messages"`
}
