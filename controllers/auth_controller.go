package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/network/config"
	"github.com/cppla/network/middleware"
	"github.com/cppla/network/models"
	"github.com/cppla/network/services"
	"github.com/cppla/network/utils"
)

// AuthController handles login, logout, registration and account removal.
type AuthController struct {
	auth     *services.AuthService
	accounts *services.AccountService
}

// NewAuthController creates an AuthController.
func NewAuthController(auth *services.AuthService, accounts *services.AccountService) *AuthController {
	return &AuthController{auth: auth, accounts: accounts}
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required,notblank"`
	Password string `form:"password" json:"password" binding:"required"`
}

type registerRequest struct {
	Username     string `form:"username" json:"username" binding:"required,notblank"`
	Email        string `form:"email" json:"email" binding:"required"`
	Password     string `form:"password" json:"password" binding:"required"`
	Confirmation string `form:"confirmation" json:"confirmation"`
}

// LoginPage renders the login form.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{"Title": "Login", "Next": ctx.Query("next")})
}

// Login accepts a username or an email address with a password.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		a.loginFailed(ctx, http.StatusBadRequest, 40001, "Invalid request payload.")
		return
	}

	user, err := a.auth.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		status, code, known := statusFor(err)
		if !known {
			respondError(ctx, err)
			return
		}
		a.loginFailed(ctx, status, code, "Invalid username and/or password.")
		return
	}

	a.startSession(ctx, user, http.StatusOK)
}

func (a *AuthController) loginFailed(ctx *gin.Context, status, code int, message string) {
	if wantsJSON(ctx) {
		utils.Error(ctx, status, code, message)
		return
	}
	ctx.HTML(status, "login.html", gin.H{"Title": "Login", "Message": message, "Next": ctx.PostForm("next")})
}

// Logout revokes the current session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	revokeSession(ctx)
	if wantsJSON(ctx) {
		utils.Message(ctx, http.StatusOK, "Logged out.", nil)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form.
func (a *AuthController) RegisterPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates an account and signs it in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		a.registerFailed(ctx, http.StatusBadRequest, 40001, "Invalid request payload.")
		return
	}

	user, err := a.accounts.Register(ctx.Request.Context(), services.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Confirmation: req.Confirmation,
	})
	if err != nil {
		status, code, known := statusFor(err)
		if !known {
			respondError(ctx, err)
			return
		}
		a.registerFailed(ctx, status, code, errorMessage(err)+".")
		return
	}

	utils.Sugar.Infow("user registered", "user_id", user.ID, "username", user.Username)
	a.startSession(ctx, user, http.StatusCreated)
}

func (a *AuthController) registerFailed(ctx *gin.Context, status, code int, message string) {
	if wantsJSON(ctx) {
		utils.Error(ctx, status, code, message)
		return
	}
	ctx.HTML(status, "register.html", gin.H{"Title": "Register", "Message": message})
}

// DeleteAccount removes the signed in account. Its posts and likes are kept
// under the placeholder user.
func (a *AuthController) DeleteAccount(ctx *gin.Context) {
	userID, username, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	if err := a.accounts.Delete(ctx.Request.Context(), userID); err != nil {
		respondError(ctx, err)
		return
	}

	revokeSession(ctx)
	utils.RevokeUserSessions(userID)
	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Sugar.Infow("account deleted", "user_id", userID, "username", username)
	utils.Message(ctx, http.StatusOK, "Account "+username+" is successfully deleted", nil)
}

func (a *AuthController) startSession(ctx *gin.Context, user *models.User, status int) {
	ttl := utils.SessionTTL()
	token, err := utils.GenerateToken(user.ID, user.Username, ttl)
	if err != nil {
		respondError(ctx, err)
		return
	}
	setSessionCookie(ctx, token, ttl)

	if wantsJSON(ctx) {
		utils.Respond(ctx, status, 0, "success", gin.H{
			"token":      token,
			"expires_at": time.Now().Add(ttl),
			"user":       gin.H{"id": user.ID, "username": user.Username},
		})
		return
	}
	next := ctx.PostForm("next")
	if next == "" {
		next = ctx.Query("next")
	}
	ctx.Redirect(http.StatusFound, localPath(next, "/"))
}

func setSessionCookie(ctx *gin.Context, token string, ttl time.Duration) {
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(cfg.CookieName, token, int(ttl.Seconds()), "/", "", cfg.CookieSecure, true)
}

func revokeSession(ctx *gin.Context) {
	if v, ok := ctx.Get(middleware.ContextClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok && claims.ExpiresAt != nil {
			utils.BlacklistToken(ctx.GetString(middleware.ContextTokenKey), claims.ExpiresAt.Time)
		}
	}
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.CookieSecure, true)
}
