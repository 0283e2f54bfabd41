package repositories

import (
	"github.com/linkup-app/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friendship data operations
type FriendshipRepository interface {
	Create(f *models.Friendship) error
	GetByID(id uint) (*models.Friendship, error)
	GetBetween(a, b uint) (*models.Friendship, error)
	Save(f *models.Friendship) error
	Delete(id uint) error
	ListAcceptedFor(userID uint) ([]models.Friendship, error)
	ListPendingIncoming(userID uint) ([]models.Friendship, error)
	ListPendingOutgoing(userID uint) ([]models.Friendship, error)
	AcceptedFriendIDs(userID uint) ([]uint, error)
	AreFriends(a, b uint) (bool, error)
	HasPendingFrom(from, to uint) (bool, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// Create inserts a friendship row. A duplicate (requester, target) pair
// surfaces as gorm.ErrDuplicatedKey via the unique index.
func (r *PostgresFriendshipRepository) Create(f *models.Friendship) error {
	return r.db.Create(f).Error
}

// GetByID retrieves a friendship by ID
func (r *PostgresFriendshipRepository) GetByID(id uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// GetBetween retrieves the friendship row between two users in either
// direction, regardless of status.
func (r *PostgresFriendshipRepository) GetBetween(a, b uint) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.Where(
		"(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
		a, b, b, a,
	).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Save persists changes to a friendship row
func (r *PostgresFriendshipRepository) Save(f *models.Friendship) error {
	return r.db.Save(f).Error
}

// Delete removes a friendship row
func (r *PostgresFriendshipRepository) Delete(id uint) error {
	return r.db.Delete(&models.Friendship{}, id).Error
}

// ListAcceptedFor retrieves all accepted friendships touching userID,
// with both users preloaded.
func (r *PostgresFriendshipRepository) ListAcceptedFor(userID uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.
		Where("(requester_id = ? OR target_id = ?) AND status = ?",
			userID, userID, models.FriendshipStatusAccepted).
		Preload("Requester").
		Preload("Target").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingIncoming retrieves pending requests where userID is the target
func (r *PostgresFriendshipRepository) ListPendingIncoming(userID uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.
		Where("target_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Requester").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingOutgoing retrieves pending requests where userID is the requester
func (r *PostgresFriendshipRepository) ListPendingOutgoing(userID uint) ([]models.Friendship, error) {
	var rows []models.Friendship
	err := r.db.
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Preload("Target").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AcceptedFriendIDs maps every accepted friendship touching userID to the
// id on the other side.
func (r *PostgresFriendshipRepository) AcceptedFriendIDs(userID uint) ([]uint, error) {
	var rows []models.Friendship
	err := r.db.
		Select("id", "requester_id", "target_id").
		Where("(requester_id = ? OR target_id = ?) AND status = ?",
			userID, userID, models.FriendshipStatusAccepted).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].OtherSide(userID))
	}
	return ids, nil
}

// AreFriends checks whether an accepted friendship exists between two users
func (r *PostgresFriendshipRepository) AreFriends(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("((requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)) AND status = ?",
			a, b, b, a, models.FriendshipStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPendingFrom checks whether a pending request exists from one user to another
func (r *PostgresFriendshipRepository) HasPendingFrom(from, to uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Friendship{}).
		Where("requester_id = ? AND target_id = ? AND status = ?",
			from, to, models.FriendshipStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
