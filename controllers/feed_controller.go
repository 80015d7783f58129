package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/network/middleware"
	"github.com/cppla/network/services"
)

// FeedController renders the paginated feeds and profile pages.
type FeedController struct {
	feeds  *services.FeedService
	social *services.SocialService
}

// NewFeedController creates a FeedController.
func NewFeedController(feeds *services.FeedService, social *services.SocialService) *FeedController {
	return &FeedController{feeds: feeds, social: social}
}

// Index shows every post.
func (f *FeedController) Index(ctx *gin.Context) {
	viewerID, viewer, _ := middleware.CurrentUser(ctx)
	page, err := f.feeds.Global(ctx.Request.Context(), viewerID, ctx.Query("page"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	render(ctx, http.StatusOK, "index.html", gin.H{"Title": "All Posts", "Viewer": viewer, "Feed": page}, page.JSON())
}

// Following shows posts from the users the viewer follows.
func (f *FeedController) Following(ctx *gin.Context) {
	viewerID, viewer, _ := middleware.CurrentUser(ctx)
	page, err := f.feeds.Following(ctx.Request.Context(), viewerID, ctx.Query("page"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	render(ctx, http.StatusOK, "following.html", gin.H{"Title": "Following", "Viewer": viewer, "Feed": page}, page.JSON())
}

// Profile shows a user's counters and posts. An unknown user renders the
// page with its error flag set.
func (f *FeedController) Profile(ctx *gin.Context) {
	viewerID, viewer, _ := middleware.CurrentUser(ctx)
	view, err := f.social.Profile(ctx.Request.Context(), viewerID, ctx.Param("username"), ctx.Query("page"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	render(ctx, http.StatusOK, "profile.html", gin.H{"Title": view.Username, "Viewer": viewer, "Profile": view, "Feed": view.Feed}, view.JSON())
}
