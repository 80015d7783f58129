package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/cppla/network/models"
)

// PostService owns the post lifecycle: create, read, edit and delete.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db, now: time.Now}
}

// NormalizeContent trims post content and checks its bounds. The text is
// stored as typed; markup is sanitized when a page renders it.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > models.MaxPostLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

// Create stores a new post authored by actorID.
func (s *PostService) Create(ctx context.Context, actorID uint, content string) (*models.Post, error) {
	if actorID == 0 {
		return nil, ErrNotOwner
	}
	clean, err := NormalizeContent(content)
	if err != nil {
		return nil, err
	}

	post := models.Post{UserID: actorID, Content: clean, CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Get(ctx, post.ID)
}

// Get loads a post with its author.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("User").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Owned loads postID and checks that actorID may change it.
func (s *PostService) Owned(ctx context.Context, actorID, postID uint) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actorID == 0 || post.UserID != actorID {
		return nil, ErrNotOwner
	}
	return post, nil
}

// Update replaces the content of a post owned by actorID and marks it edited.
func (s *PostService) Update(ctx context.Context, actorID, postID uint, content string) (*models.Post, error) {
	post, err := s.Owned(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}
	clean, err := NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	if clean == post.Content {
		return nil, ErrContentUnchanged
	}

	editedAt := s.now()
	post.Content = clean
	post.Edited = true
	post.EditedAt = &editedAt
	err = s.db.WithContext(ctx).Model(post).
		Select("Content", "Edited", "EditedAt").
		Updates(post).Error
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete removes a post owned by actorID together with its likes.
func (s *PostService) Delete(ctx context.Context, actorID, postID uint) error {
	post, err := s.Owned(ctx, actorID, postID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Delete(&models.Post{}, post.ID).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}
