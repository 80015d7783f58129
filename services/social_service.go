package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/network/models"
)

// ProfileView is everything a profile page shows. Error is set when the
// requested user does not exist; the view is still rendered.
type ProfileView struct {
	Username     string
	Error        bool
	Following    bool
	NumPosts     int64
	NumFollowers int64
	NumFollowing int64
	Feed         *FeedPage
}

// ProfileJSON is the wire shape of a ProfileView.
type ProfileJSON struct {
	Username     string        `json:"username"`
	Error        bool          `json:"error"`
	Following    bool          `json:"following"`
	NumPosts     int64         `json:"num_posts"`
	NumFollowers int64         `json:"num_followers"`
	NumFollowing int64         `json:"num_following"`
	Posts        *FeedPageJSON `json:"feed,omitempty"`
}

// JSON serializes the view.
func (v *ProfileView) JSON() ProfileJSON {
	out := ProfileJSON{
		Username:     v.Username,
		Error:        v.Error,
		Following:    v.Following,
		NumPosts:     v.NumPosts,
		NumFollowers: v.NumFollowers,
		NumFollowing: v.NumFollowing,
	}
	if v.Feed != nil {
		page := v.Feed.JSON()
		out.Posts = &page
	}
	return out
}

// SocialService manages the directed follow graph and profile views.
type SocialService struct {
	db       *gorm.DB
	accounts *AccountService
	feeds    *FeedService
}

// NewSocialService creates a SocialService.
func NewSocialService(db *gorm.DB, accounts *AccountService, feeds *FeedService) *SocialService {
	return &SocialService{db: db, accounts: accounts, feeds: feeds}
}

// Follow makes actorID follow the user named username.
func (s *SocialService) Follow(ctx context.Context, actorID uint, username string) (*models.User, error) {
	target, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID {
		return nil, ErrSelfFollow
	}
	following, err := s.IsFollowing(ctx, actorID, target.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, ErrAlreadyFollowing
	}

	err = s.db.WithContext(ctx).Create(&models.Follow{FollowerID: actorID, FolloweeID: target.ID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyFollowing
	}
	if err != nil {
		return nil, fmt.Errorf("create follow: %w", err)
	}
	return target, nil
}

// Unfollow removes the edge from actorID to the user named username.
func (s *SocialService) Unfollow(ctx context.Context, actorID uint, username string) (*models.User, error) {
	target, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID {
		return nil, ErrSelfUnfollow
	}

	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", actorID, target.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFollowing
	}
	return target, nil
}

// IsFollowing reports whether followerID follows followeeID.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return n > 0, nil
}

// Counts returns how many users follow userID and how many userID follows.
func (s *SocialService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	if err = s.db.WithContext(ctx).Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, fmt.Errorf("count followers: %w", err)
	}
	if err = s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, fmt.Errorf("count following: %w", err)
	}
	return followers, following, nil
}

// Profile builds the profile of username as seen by viewerID (0 when anonymous).
func (s *SocialService) Profile(ctx context.Context, viewerID uint, username, rawPage string) (*ProfileView, error) {
	owner, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return &ProfileView{Username: username, Error: true}, nil
	}
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Username: owner.Username}
	if view.NumFollowers, view.NumFollowing, err = s.Counts(ctx, owner.ID); err != nil {
		return nil, err
	}
	if viewerID != 0 && viewerID != owner.ID {
		if view.Following, err = s.IsFollowing(ctx, viewerID, owner.ID); err != nil {
			return nil, err
		}
	}
	if view.Feed, err = s.feeds.ByUser(ctx, viewerID, owner.ID, rawPage); err != nil {
		return nil, err
	}
	view.NumPosts = view.Feed.Page.Total
	return view, nil
}
