package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/network/middleware"
	"github.com/cppla/network/models"
	"github.com/cppla/network/services"
	"github.com/cppla/network/utils"
)

const postsListCacheKey = postsCachePrefix + "list"

// PostController exposes post creation and the JSON post API.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a PostController.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

type postRequest struct {
	Content *string `form:"content" json:"content"`
}

// CreatePost stores a new post for the signed in user. Form posts are sent
// back to the page they came from.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, _, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}

	var req postRequest
	if err := ctx.ShouldBind(&req); err != nil || req.Content == nil {
		if wantsJSON(ctx) {
			utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
			return
		}
		ctx.Redirect(http.StatusFound, refererPath(ctx, "/"))
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), userID, *req.Content)
	if err != nil {
		_, _, known := statusFor(err)
		if wantsJSON(ctx) || !known {
			respondError(ctx, err)
			return
		}
		utils.Sugar.Debugw("post rejected", "user_id", userID, "error", err)
		ctx.Redirect(http.StatusFound, refererPath(ctx, "/"))
		return
	}
	utils.InvalidateByPrefix(postsCachePrefix)

	if wantsJSON(ctx) {
		ctx.JSON(http.StatusCreated, post.Serialize())
		return
	}
	ctx.Redirect(http.StatusFound, refererPath(ctx, "/"))
}

// ListPosts returns every post, newest first, as a JSON array.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(postsListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	posts, err := p.posts.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	b, err := utils.CacheSetJSON(postsListCacheKey, serializePosts(posts), 10*time.Minute)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

// GetPost returns a single post wrapped in a one element array.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		respondError(ctx, services.ErrPostNotFound)
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, []models.PostJSON{post.Serialize()})
}

// UpdatePost replaces the content of a post owned by the caller.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		respondError(ctx, services.ErrPostNotFound)
		return
	}
	userID, _, _ := middleware.CurrentUser(ctx)
	if _, err := p.posts.Owned(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Content == nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), userID, id, *req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("Post id=%d is successfully edited", id), gin.H{"post": post.Serialize()})
}

// DeletePost removes a post owned by the caller together with its likes.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		respondError(ctx, services.ErrPostNotFound)
		return
	}

	userID, _, _ := middleware.CurrentUser(ctx)
	if err := p.posts.Delete(ctx.Request.Context(), userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("Post id=%d is successfully deleted", id), nil)
}

func serializePosts(posts []models.Post) []models.PostJSON {
	out := make([]models.PostJSON, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].Serialize())
	}
	return out
}
