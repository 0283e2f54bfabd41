package repositories

import (
	"time"

	"github.com/linkup-app/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(m *models.Message) error
	GetByID(id uint) (*models.Message, error)
	Delete(id uint) error
	PartnerIDs(userID uint) ([]uint, error)
	LastBetween(a, b uint) (*models.Message, error)
	UnreadCountFrom(senderID, receiverID uint) (int64, error)
	UnreadCount(userID uint) (int64, error)
	OpenBetween(userID, friendID uint, now time.Time) ([]models.Message, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// Create persists a new message
func (r *PostgresMessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// GetByID retrieves a message by ID
func (r *PostgresMessageRepository) GetByID(id uint) (*models.Message, error) {
	var m models.Message
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a message row
func (r *PostgresMessageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Message{}, id).Error
}

// PartnerIDs returns the distinct set of users userID has exchanged
// messages with, as sender or receiver.
func (r *PostgresMessageRepository) PartnerIDs(userID uint) ([]uint, error) {
	var sentTo []uint
	if err := r.db.Model(&models.Message{}).
		Where("sender_id = ?", userID).
		Distinct().
		Pluck("receiver_id", &sentTo).Error; err != nil {
		return nil, err
	}

	var receivedFrom []uint
	if err := r.db.Model(&models.Message{}).
		Where("receiver_id = ?", userID).
		Distinct().
		Pluck("sender_id", &receivedFrom).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(sentTo)+len(receivedFrom))
	partners := make([]uint, 0, len(sentTo)+len(receivedFrom))
	for _, id := range append(sentTo, receivedFrom...) {
		if !seen[id] {
			seen[id] = true
			partners = append(partners, id)
		}
	}
	return partners, nil
}

// LastBetween returns the most recent message between two users
func (r *PostgresMessageRepository) LastBetween(a, b uint) (*models.Message, error) {
	var m models.Message
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			a, b, b, a).
		Order("sent_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UnreadCountFrom counts unread messages sent by senderID to receiverID
func (r *PostgresMessageRepository) UnreadCountFrom(senderID, receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Count(&count).Error
	return count, err
}

// UnreadCount counts all unread messages addressed to userID
func (r *PostgresMessageRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// OpenBetween returns all messages between userID and friendID in sent
// order and marks the friend's unread messages as read. Both happen in one
// transaction so no caller can observe a partially updated read state.
func (r *PostgresMessageRepository) OpenBetween(userID, friendID uint, now time.Time) ([]models.Message, error) {
	var messages []models.Message

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				userID, friendID, friendID, userID).
			Order("sent_at ASC, id ASC").
			Find(&messages).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND is_read = ?", friendID, userID, false).
			Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
			return err
		}

		// Reflect the mark-read in the returned slice
		for i := range messages {
			if messages[i].SenderID == friendID && !messages[i].IsRead {
				messages[i].IsRead = true
				readAt := now
				messages[i].ReadAt = &readAt
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
