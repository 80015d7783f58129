package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/network/services"
	"github.com/cppla/network/utils"
)

// postsCachePrefix covers every cached rendition of the public post list.
const postsCachePrefix = "cache:posts:"

type errorMapping struct {
	err    error
	status int
	code   int
}

// Order matters only for readability; the service errors are disjoint.
var errorMappings = []errorMapping{
	{services.ErrUserNotFound, http.StatusNotFound, 40401},
	{services.ErrPostNotFound, http.StatusNotFound, 40402},
	{services.ErrLikeNotFound, http.StatusNotFound, 40403},
	{services.ErrNotFollowing, http.StatusNotFound, 40404},

	{services.ErrSelfFollow, http.StatusBadRequest, 40010},
	{services.ErrSelfUnfollow, http.StatusBadRequest, 40011},
	{services.ErrEmptyContent, http.StatusBadRequest, 40021},
	{services.ErrContentTooLong, http.StatusBadRequest, 40022},
	{services.ErrInvalidUsername, http.StatusBadRequest, 40002},
	{services.ErrReservedUsername, http.StatusBadRequest, 40003},
	{services.ErrInvalidEmail, http.StatusBadRequest, 40004},
	{services.ErrEmptyPassword, http.StatusBadRequest, 40005},
	{services.ErrPasswordMismatch, http.StatusBadRequest, 40006},
	{services.ErrSentinelAccount, http.StatusBadRequest, 40007},

	{services.ErrAlreadyFollowing, http.StatusConflict, 40901},
	{services.ErrAlreadyLiked, http.StatusConflict, 40902},
	{services.ErrContentUnchanged, http.StatusConflict, 40903},
	{services.ErrUsernameTaken, http.StatusConflict, 40904},
	{services.ErrEmailTaken, http.StatusConflict, 40905},

	{services.ErrNotOwner, http.StatusMethodNotAllowed, 40501},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, 40110},
}

// statusFor classifies err. Unknown errors are internal failures.
func statusFor(err error) (status, code int, known bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code, true
		}
	}
	return http.StatusInternalServerError, 50000, false
}

// respondError writes the JSON error body for err and logs unexpected failures.
func respondError(ctx *gin.Context, err error) {
	status, code, known := statusFor(err)
	if !known {
		utils.Logger.Error("request failed",
			zap.Error(err),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.String(utils.RequestIDKey, ctx.GetString(utils.RequestIDKey)),
		)
		_ = ctx.Error(err)
		utils.Error(ctx, status, code, "internal server error")
		return
	}
	utils.Error(ctx, status, code, errorMessage(err))
}

// errorMessage capitalizes the first letter the way the pages show it.
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// wantsJSON reports whether the client talks JSON rather than HTML forms.
func wantsJSON(ctx *gin.Context) bool {
	if ctx.ContentType() == gin.MIMEJSON {
		return true
	}
	return ctx.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// render answers with the named template or with JSON, depending on Accept.
func render(ctx *gin.Context, status int, name string, page gin.H, data interface{}) {
	ctx.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: name,
		HTMLData: page,
		JSONData: data,
	})
}

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// localPath returns target when it is a path on this site, fallback otherwise.
func localPath(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// refererPath returns the path of a same-host Referer, or fallback.
func refererPath(ctx *gin.Context, fallback string) string {
	ref, err := url.Parse(ctx.Request.Referer())
	if err != nil || ref.Path == "" {
		return fallback
	}
	if ref.Host != "" && ref.Host != ctx.Request.Host {
		return fallback
	}
	target := ref.Path
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return localPath(target, fallback)
}
