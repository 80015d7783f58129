package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/network/middleware"
	"github.com/cppla/network/services"
	"github.com/cppla/network/utils"
)

// LikeController handles like and unlike requests.
type LikeController struct {
	likes *services.LikeService
}

// NewLikeController creates a LikeController.
func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// Like records the caller's like on :post_id.
func (l *LikeController) Like(ctx *gin.Context) {
	postID, ok := parseID(ctx, "post_id")
	if !ok {
		respondError(ctx, services.ErrPostNotFound)
		return
	}
	userID, username, _ := middleware.CurrentUser(ctx)
	post, err := l.likes.Like(ctx.Request.Context(), userID, postID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	count, err := l.likes.Count(ctx.Request.Context(), post.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("User %s likes post from the user %s!", username, post.User.Username), gin.H{
		"post_id":      post.ID,
		"post_content": post.Content,
		"likes":        count,
	})
}

// Unlike removes the caller's like on :post_id.
func (l *LikeController) Unlike(ctx *gin.Context) {
	postID, ok := parseID(ctx, "post_id")
	if !ok {
		respondError(ctx, services.ErrPostNotFound)
		return
	}
	userID, username, _ := middleware.CurrentUser(ctx)
	post, err := l.likes.Unlike(ctx.Request.Context(), userID, postID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	count, err := l.likes.Count(ctx.Request.Context(), post.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("User %s unlikes post from the user %s!", username, post.User.Username), gin.H{
		"post_id":      post.ID,
		"post_content": post.Content,
		"likes":        count,
	})
}
