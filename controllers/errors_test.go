package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cppla/network/services"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrPostNotFound, http.StatusNotFound},
		{services.ErrLikeNotFound, http.StatusNotFound},
		{services.ErrSelfFollow, http.StatusBadRequest},
		{services.ErrContentUnchanged, http.StatusConflict},
		{services.ErrAlreadyLiked, http.StatusConflict},
		{services.ErrNotOwner, http.StatusMethodNotAllowed},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", services.ErrUserNotFound), http.StatusNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		status, _, _ := statusFor(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
	}
}

func TestRespondErrorHidesInternalFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/posts", nil)

	respondError(ctx, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":50000,"error":"internal server error"}`, w.Body.String())
	assert.Len(t, ctx.Errors, 1)
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/following", localPath("/following", "/"))
	assert.Equal(t, "/", localPath("", "/"))
	assert.Equal(t, "/", localPath("https://evil.example", "/"))
	assert.Equal(t, "/", localPath("//evil.example", "/"))
	assert.Equal(t, "/", localPath(`/\evil.example`, "/"))
}

func TestRefererPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newCtx := func(referer string) *gin.Context {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodPost, "http://network.local/post", nil)
		if referer != "" {
			ctx.Request.Header.Set("Referer", referer)
		}
		return ctx
	}

	assert.Equal(t, "/alice?page=2", refererPath(newCtx("http://network.local/alice?page=2"), "/"))
	assert.Equal(t, "/", refererPath(newCtx("https://elsewhere.example/alice"), "/"))
	assert.Equal(t, "/", refererPath(newCtx(""), "/"))
}
