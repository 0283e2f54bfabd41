package services

import (
	"errors"

	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/internal/security"
	"github.com/linkup-app/backend/pkg/apperrors"
	"gorm.io/gorm"
)

// FeedService owns posts, likes and comments.
type FeedService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
}

// NewFeedService creates a new FeedService
func NewFeedService(posts repositories.PostRepository, users repositories.UserRepository) *FeedService {
	return &FeedService{posts: posts, users: users}
}

// CreatePost creates a new post for userID
func (s *FeedService) CreatePost(userID uint, req models.CreatePostRequest) (*models.Post, error) {
	title := security.SanitizeContent(req.Title)
	content := security.SanitizeContent(req.Content)
	if title == "" || content == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "title and content are required")
	}

	p := &models.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := s.posts.CreatePost(p); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to create post")
	}
	return p, nil
}

// Feed returns all posts newest first, each with its like count, the
// viewer's liked flag and the comments in posting order.
func (s *FeedService) Feed(viewerID uint) ([]models.FeedPost, error) {
	posts, err := s.posts.ListPosts()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load feed")
	}

	feed := make([]models.FeedPost, 0, len(posts))
	for i := range posts {
		p := &posts[i]

		likes, err := s.posts.LikesCount(p.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to count likes")
		}
		liked, err := s.posts.HasUserLiked(viewerID, p.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check like")
		}
		comments, err := s.posts.CommentsByPostID(p.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load comments")
		}

		views := make([]models.CommentView, 0, len(comments))
		for j := range comments {
			c := &comments[j]
			views = append(views, models.CommentView{
				ID:        c.ID,
				Content:   c.Content,
				UserName:  c.User.FullName,
				CreatedAt: c.CreatedAt,
			})
		}

		feed = append(feed, models.FeedPost{
			ID:            p.ID,
			Title:         p.Title,
			Content:       p.Content,
			UserID:        p.UserID,
			UserName:      p.User.FullName,
			CreatedAt:     p.CreatedAt,
			LikesCount:    likes,
			CommentsCount: int64(len(comments)),
			LikedByViewer: liked,
			Comments:      views,
		})
	}
	return feed, nil
}

// ToggleLike likes the post when the user has not liked it, and removes
// the like when they have. Returns whether the post is liked afterwards.
func (s *FeedService) ToggleLike(userID, postID uint) (bool, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.New(apperrors.CodeNotFound, "post not found")
		}
		return false, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load post")
	}

	liked, err := s.posts.ToggleLike(userID, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, apperrors.New(apperrors.CodeConflict, "post already liked")
		}
		return false, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to toggle like")
	}
	return liked, nil
}

// AddComment adds a comment to a post
func (s *FeedService) AddComment(userID, postID uint, content string) (*models.PostComment, error) {
	content = security.SanitizeContent(content)
	if content == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "comment cannot be empty")
	}

	if _, err := s.posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "post not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load post")
	}

	c := &models.PostComment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := s.posts.CreateComment(c); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to add comment")
	}
	return c, nil
}

// DeletePost removes a post. Only its author may delete it.
func (s *FeedService) DeletePost(postID, actingUserID uint) error {
	p, err := s.posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "post not found")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load post")
	}
	if p.UserID != actingUserID {
		return apperrors.New(apperrors.CodeForbidden, "you can only delete your own posts")
	}

	if err := s.posts.DeletePost(p.ID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to delete post")
	}
	return nil
}
