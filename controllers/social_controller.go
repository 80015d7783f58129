package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/network/middleware"
	"github.com/cppla/network/services"
	"github.com/cppla/network/utils"
)

// SocialController handles follow and unfollow requests.
type SocialController struct {
	social *services.SocialService
}

// NewSocialController creates a SocialController.
func NewSocialController(social *services.SocialService) *SocialController {
	return &SocialController{social: social}
}

// Follow makes the caller follow :username.
func (s *SocialController) Follow(ctx *gin.Context) {
	userID, username, _ := middleware.CurrentUser(ctx)
	target, err := s.social.Follow(ctx.Request.Context(), userID, ctx.Param("username"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("User %s starts to follow user %s!", username, target.Username), nil)
}

// Unfollow removes the caller's follow of :username.
func (s *SocialController) Unfollow(ctx *gin.Context) {
	userID, username, _ := middleware.CurrentUser(ctx)
	target, err := s.social.Unfollow(ctx.Request.Context(), userID, ctx.Param("username"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("User %s unfollows user %s!", username, target.Username), nil)
}
