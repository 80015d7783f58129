package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/network/models"
)

// LikeService records which users like which posts.
type LikeService struct {
	db    *gorm.DB
	posts *PostService
}

// NewLikeService creates a LikeService.
func NewLikeService(db *gorm.DB, posts *PostService) *LikeService {
	return &LikeService{db: db, posts: posts}
}

// Like records that actorID likes postID. A second like is a conflict.
func (s *LikeService) Like(ctx context.Context, actorID, postID uint) (*models.Post, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	liked, err := s.HasLiked(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, ErrAlreadyLiked
	}

	err = s.db.WithContext(ctx).Create(&models.Like{UserID: actorID, PostID: postID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyLiked
	}
	if err != nil {
		return nil, fmt.Errorf("create like: %w", err)
	}
	return post, nil
}

// Unlike removes the like of actorID on postID.
func (s *LikeService) Unlike(ctx context.Context, actorID, postID uint) (*models.Post, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", actorID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrLikeNotFound
	}
	return post, nil
}

// HasLiked reports whether userID currently likes postID.
func (s *LikeService) HasLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of likes on postID.
func (s *LikeService) Count(ctx context.Context, postID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
