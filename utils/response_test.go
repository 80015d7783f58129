package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return ctx, w
}

func TestSuccessEnvelope(t *testing.T) {
	ctx, w := newTestContext()
	Success(ctx, gin.H{"status": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"status":"ok"}}`, w.Body.String())
}

func TestErrorEnvelope(t *testing.T) {
	ctx, w := newTestContext()
	Error(ctx, http.StatusNotFound, 40402, "Post does not exist")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":40402,"error":"Post does not exist"}`, w.Body.String())
}

func TestMessageMergesExtras(t *testing.T) {
	ctx, w := newTestContext()
	Message(ctx, http.StatusOK, "done", gin.H{"post_id": 3})

	assert.JSONEq(t, `{"message":"done","post_id":3}`, w.Body.String())
}
