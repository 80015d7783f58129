package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/network/config"
	"github.com/cppla/network/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextClaimsKey stores the parsed session claims.
	ContextClaimsKey = "claims"
	// ContextTokenKey stores the raw session token so it can be revoked on logout.
	ContextTokenKey = "session_token"
)

// AuthOptional attaches the session user when a valid token is present and
// lets anonymous requests through untouched.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token := sessionToken(ctx); token != "" {
			if claims, code := verify(token); code == 0 {
				setSession(ctx, token, claims)
			}
		}
		ctx.Next()
	}
}

// AuthRequired rejects requests without a valid session. Browsers asking for
// a page are sent to the login form instead of receiving a 401.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessionToken(ctx)
		if token == "" {
			deny(ctx, 40101, "authentication required")
			return
		}
		claims, code := verify(token)
		if code != 0 {
			deny(ctx, code, "invalid or expired session")
			return
		}
		setSession(ctx, token, claims)
		ctx.Next()
	}
}

// CurrentUser returns the authenticated user attached to ctx.
func CurrentUser(ctx *gin.Context) (uint, string, bool) {
	v, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return 0, "", false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, "", false
	}
	return id, ctx.GetString(ContextUsernameKey), true
}

// sessionToken prefers the Authorization header and falls back to the session cookie.
func sessionToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	cookie, err := ctx.Cookie(config.Get().CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie)
}

func verify(token string) (*utils.Claims, int) {
	if utils.IsTokenBlacklisted(token) {
		return nil, 40104
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, 40105
	}
	if claims.IssuedAt == nil || utils.IsUserRevoked(claims.UserID, claims.IssuedAt.Time) {
		return nil, 40104
	}
	return claims, 0
}

func setSession(ctx *gin.Context, token string, claims *utils.Claims) {
	ctx.Set(ContextTokenKey, token)
	ctx.Set(ContextClaimsKey, claims)
	ctx.Set(ContextUserIDKey, claims.UserID)
	ctx.Set(ContextUsernameKey, claims.Username)
}

func deny(ctx *gin.Context, code int, message string) {
	if ctx.Request.Method == http.MethodGet && ctx.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML {
		ctx.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(ctx.Request.URL.RequestURI()))
		ctx.Abort()
		return
	}
	utils.Error(ctx, http.StatusUnauthorized, code, message)
	ctx.Abort()
}
