package services

import (
	"errors"
	"sort"
	"time"

	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/internal/security"
	"github.com/linkup-app/backend/pkg/apperrors"
	"gorm.io/gorm"
)

const previewRuneLimit = 50

// MessageService owns conversation aggregation and per-message read state.
// Messaging is gated on an accepted friendship between the two users.
type MessageService struct {
	messages    repositories.MessageRepository
	friendships repositories.FriendshipRepository
	users       repositories.UserRepository
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages repositories.MessageRepository,
	friendships repositories.FriendshipRepository,
	users repositories.UserRepository,
) *MessageService {
	return &MessageService{
		messages:    messages,
		friendships: friendships,
		users:       users,
	}
}

// ListConversations derives the inbox for userID: one entry per messaging
// partner with the latest message and the unread count from that partner,
// newest conversation first.
func (s *MessageService) ListConversations(userID uint) (*models.Inbox, error) {
	partnerIDs, err := s.messages.PartnerIDs(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to list conversation partners")
	}

	inbox := &models.Inbox{Conversations: make([]models.ConversationPreview, 0, len(partnerIDs))}
	for _, partnerID := range partnerIDs {
		partner, err := s.users.GetUserByID(partnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load conversation partner")
		}

		last, err := s.messages.LastBetween(userID, partnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load last message")
		}

		unread, err := s.messages.UnreadCountFrom(partnerID, userID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to count unread messages")
		}

		inbox.Conversations = append(inbox.Conversations, models.ConversationPreview{
			Partner:                      partner.Public(),
			LastMessage:                  truncatePreview(last.Content),
			LastMessageTime:              last.SentAt,
			UnreadCount:                  unread,
			IsLastMessageFromCurrentUser: last.SenderID == userID,
		})
		inbox.TotalUnreadCount += unread
	}

	sort.Slice(inbox.Conversations, func(i, j int) bool {
		return inbox.Conversations[i].LastMessageTime.After(inbox.Conversations[j].LastMessageTime)
	})

	return inbox, nil
}

// OpenConversation returns the full message history between userID and
// friendID in sent order. Opening marks every unread message from the
// friend as read; the read and the mark-read run in one transaction.
// Fails with Forbidden unless the two users are accepted friends.
func (s *MessageService) OpenConversation(userID, friendID uint) (*models.Chat, error) {
	areFriends, err := s.friendships.AreFriends(userID, friendID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check friendship")
	}
	if !areFriends {
		return nil, apperrors.New(apperrors.CodeForbidden, "you can only message your friends")
	}

	friend, err := s.users.GetUserByID(friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}

	viewer, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}

	messages, err := s.messages.OpenBetween(userID, friendID, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to open conversation")
	}

	chat := &models.Chat{
		Friend:   friend.Public(),
		Messages: make([]models.MessageView, 0, len(messages)),
	}
	for i := range messages {
		m := &messages[i]
		senderName := friend.FullName
		if m.SenderID == userID {
			senderName = viewer.FullName
		}
		chat.Messages = append(chat.Messages, models.MessageView{
			ID:                  m.ID,
			SenderID:            m.SenderID,
			SenderName:          senderName,
			ReceiverID:          m.ReceiverID,
			Content:             m.Content,
			SentAt:              m.SentAt,
			IsRead:              m.IsRead,
			IsSentByCurrentUser: m.SenderID == userID,
		})
	}
	return chat, nil
}

// Send persists a message from senderID to receiverID. Fails with
// Forbidden unless the pair are accepted friends and with InvalidInput
// when the content is empty after sanitizing and trimming.
func (s *MessageService) Send(senderID, receiverID uint, content string) (*models.Message, error) {
	content = security.SanitizeContent(content)
	if content == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "message cannot be empty")
	}

	areFriends, err := s.friendships.AreFriends(senderID, receiverID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check friendship")
	}
	if !areFriends {
		return nil, apperrors.New(apperrors.CodeForbidden, "you can only message your friends")
	}

	m := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		SentAt:     time.Now().UTC(),
		IsRead:     false,
	}
	if err := s.messages.Create(m); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to send message")
	}
	return m, nil
}

// Delete removes a message. Only the original sender may delete it.
func (s *MessageService) Delete(messageID, actingUserID uint) error {
	m, err := s.messages.GetByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "message not found")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load message")
	}
	if m.SenderID != actingUserID {
		return apperrors.New(apperrors.CodeForbidden, "you can only delete your own messages")
	}

	if err := s.messages.Delete(m.ID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to delete message")
	}
	return nil
}

// UnreadCount counts all unread messages addressed to userID
func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	count, err := s.messages.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to count unread messages")
	}
	return count, nil
}

func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRuneLimit {
		return content
	}
	return string(runes[:previewRuneLimit]) + "..."
}
