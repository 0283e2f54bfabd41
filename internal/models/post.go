package models

import "time"

// Post is a feed post
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// PostLike records one user liking one post; the unique index keeps a user
// from liking the same post twice.
type PostLike struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  uint      `json:"user_id" gorm:"not null;index:idx_post_like,unique"`
	PostID  uint      `json:"post_id" gorm:"not null;index:idx_post_like,unique"`
	Post    Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	LikedAt time.Time `json:"liked_at" gorm:"autoCreateTime"`
}

// PostComment is a comment on a post
type PostComment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	PostID    uint      `json:"post_id" gorm:"not null;index"`
	Post      Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentView is a comment annotated with its author's name.
type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedPost is one feed entry with counts and comments resolved.
type FeedPost struct {
	ID            uint          `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	UserID        uint          `json:"user_id"`
	UserName      string        `json:"user_name"`
	CreatedAt     time.Time     `json:"created_at"`
	LikesCount    int64         `json:"likes_count"`
	CommentsCount int64         `json:"comments_count"`
	LikedByViewer bool          `json:"liked_by_viewer"`
	Comments      []CommentView `json:"comments"`
}
