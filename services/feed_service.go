package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/network/models"
)

// FeedItem is a post as seen by one viewer. Liked and Likes are computed per
// request and never stored.
type FeedItem struct {
	Post  models.Post
	Liked bool
	Likes int64
}

// FeedItemJSON is the wire shape of a FeedItem.
type FeedItemJSON struct {
	models.PostJSON
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// JSON serializes the item. The post author must be loaded.
func (i FeedItem) JSON() FeedItemJSON {
	return FeedItemJSON{PostJSON: i.Post.Serialize(), Liked: i.Liked, Likes: i.Likes}
}

// FeedPage is one page of a feed.
type FeedPage struct {
	Items []FeedItem
	Page  PageInfo
}

// FeedPageJSON is the wire shape of a FeedPage.
type FeedPageJSON struct {
	Posts []FeedItemJSON `json:"posts"`
	Page  PageInfo       `json:"pagination"`
}

// JSON serializes the page.
func (p *FeedPage) JSON() FeedPageJSON {
	out := FeedPageJSON{Posts: make([]FeedItemJSON, 0, len(p.Items)), Page: p.Page}
	for _, item := range p.Items {
		out.Posts = append(out.Posts, item.JSON())
	}
	return out
}

// FeedService assembles paginated, viewer-annotated post feeds.
type FeedService struct {
	db *gorm.DB
}

// NewFeedService creates a FeedService.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// Global returns every post, newest first. viewerID is 0 for anonymous viewers.
func (s *FeedService) Global(ctx context.Context, viewerID uint, rawPage string) (*FeedPage, error) {
	return s.page(ctx, viewerID, rawPage, func(db *gorm.DB) *gorm.DB { return db })
}

// ByUser returns the posts authored by authorID.
func (s *FeedService) ByUser(ctx context.Context, viewerID, authorID uint, rawPage string) (*FeedPage, error) {
	return s.page(ctx, viewerID, rawPage, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id = ?", authorID)
	})
}

// Following returns the posts of every user the viewer follows.
func (s *FeedService) Following(ctx context.Context, viewerID uint, rawPage string) (*FeedPage, error) {
	return s.page(ctx, viewerID, rawPage, func(db *gorm.DB) *gorm.DB {
		followees := s.db.WithContext(ctx).Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID)
		return db.Where("posts.user_id IN (?)", followees)
	})
}

func (s *FeedService) page(ctx context.Context, viewerID uint, rawPage string, scope func(*gorm.DB) *gorm.DB) (*FeedPage, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	p := NewPaginator(total, PostsPerPage)
	n := p.Number(rawPage)

	var posts []models.Post
	err := s.db.WithContext(ctx).Model(&models.Post{}).
		Scopes(scope).
		Preload("User").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(p.Offset(n)).
		Limit(p.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	items, err := s.Annotate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Items: items, Page: p.Info(n)}, nil
}

// Annotate attaches like counts and the viewer's like state to posts using
// one aggregate query and, for authenticated viewers, one lookup.
func (s *FeedService) Annotate(ctx context.Context, viewerID uint, posts []models.Post) ([]FeedItem, error) {
	items := make([]FeedItem, len(posts))
	if len(posts) == 0 {
		return items, nil
	}
	ids := make([]uint, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		items[i].Post = posts[i]
	}

	var counts []struct {
		PostID uint
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	byPost := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byPost[c.PostID] = c.Total
	}

	liked := map[uint]bool{}
	if viewerID != 0 {
		var likedIDs []uint
		err := s.db.WithContext(ctx).Model(&models.Like{}).
			Where("user_id = ? AND post_id IN ?", viewerID, ids).
			Pluck("post_id", &likedIDs).Error
		if err != nil {
			return nil, fmt.Errorf("load viewer likes: %w", err)
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	for i := range items {
		items[i].Likes = byPost[items[i].Post.ID]
		items[i].Liked = liked[items[i].Post.ID]
	}
	return items, nil
}
