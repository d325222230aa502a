package repository

import (
	"context"
	"errors"
	"time"

	"postsio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and their embedded
// comments.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	AddComment(ctx context.Context, postID string, comment *models.Comment) error
	DeleteByUser(ctx context.Context, userID string) error
	RemoveCommentsByUser(ctx context.Context, userID string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	now := time.Now().UTC()
	for i := range post.Comments {
		stampComment(&post.Comments[i], now)
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// AddComment appends a comment to the post's embedded sequence, preserving
// insertion order.
func (r *postRepository) AddComment(ctx context.Context, postID string, comment *models.Comment) error {
	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	stampComment(comment, time.Now().UTC())
	post.Comments = append(post.Comments, *comment)

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteByUser removes every post owned by the given user.
func (r *postRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RemoveCommentsByUser pulls the given user's comments out of every surviving
// post, leaving the posts and their other comments intact. Comments live
// inside the serialized posts row, so the filtering happens here rather than
// in SQL.
func (r *postRepository) RemoveCommentsByUser(ctx context.Context, userID string) error {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Find(&posts).Error; err != nil {
		return models.NewInternalError(err)
	}

	for i := range posts {
		if !posts[i].PullCommentsByUser(userID) {
			continue
		}
		if err := r.db.WithContext(ctx).Save(&posts[i]).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}

func stampComment(c *models.Comment, now time.Time) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
