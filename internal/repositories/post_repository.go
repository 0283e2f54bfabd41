package repositories

import (
	"errors"

	"github.com/linkup-app/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post, like and comment data operations
type PostRepository interface {
	CreatePost(p *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	DeletePost(id uint) error
	ListPosts() ([]models.Post, error)
	ToggleLike(userID, postID uint) (liked bool, err error)
	LikesCount(postID uint) (int64, error)
	HasUserLiked(userID, postID uint) (bool, error)
	CreateComment(c *models.PostComment) error
	CommentsByPostID(postID uint) ([]models.PostComment, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(p *models.Post) error {
	return r.db.Create(p).Error
}

// GetPostByID retrieves a post by ID
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var p models.Post
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost deletes a post; likes and comments cascade at the store level
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// ListPosts retrieves all posts newest first, with authors preloaded
func (r *PostgresPostRepository) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleLike inserts a like, or removes it when one already exists.
// Runs in a transaction; the unique (user_id, post_id) index backstops
// concurrent inserts.
func (r *PostgresPostRepository) ToggleLike(userID, postID uint) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		liked = true
		return tx.Create(&models.PostLike{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// LikesCount counts the likes on a post
func (r *PostgresPostRepository) LikesCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// HasUserLiked checks whether a user has liked a post
func (r *PostgresPostRepository) HasUserLiked(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateComment adds a comment to a post
func (r *PostgresPostRepository) CreateComment(c *models.PostComment) error {
	return r.db.Create(c).Error
}

// CommentsByPostID retrieves a post's comments oldest first, with authors preloaded
func (r *PostgresPostRepository) CommentsByPostID(postID uint) ([]models.PostComment, error) {
	var comments []models.PostComment
	err := r.db.
		Where("post_id = ?", postID).
		Preload("User").
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
