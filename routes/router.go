package routes

import (
	"net/http"
	"strings"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/cppla/network/config"
	"github.com/cppla/network/controllers"
	"github.com/cppla/network/middleware"
	"github.com/cppla/network/services"
	"github.com/cppla/network/utils"
	"github.com/cppla/network/web"
)

// Options toggles the optional integrations installed on the router.
type Options struct {
	Sentry bool
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID())

	// Access log goes to its own rolling file; without one, fall back to the app logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		gl = utils.Logger
	}
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, cfg.LogLevel == "debug"))

	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// Credentialed requests cannot use a literal wildcard, so echo the origin back
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	tmpl, err := web.Templates()
	if err != nil {
		utils.Sugar.Fatalf("parse templates: %v", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	accounts := services.NewAccountService(db)
	authService := services.NewAuthService(db)
	posts := services.NewPostService(db)
	likes := services.NewLikeService(db, posts)
	feeds := services.NewFeedService(db)
	social := services.NewSocialService(db, accounts, feeds)

	authController := controllers.NewAuthController(authService, accounts)
	postController := controllers.NewPostController(posts)
	feedController := controllers.NewFeedController(feeds, social)
	socialController := controllers.NewSocialController(social)
	likeController := controllers.NewLikeController(likes)
	healthController := controllers.NewHealthController(db)

	r.GET("/health", healthController.Health)

	public := r.Group("")
	public.Use(middleware.AuthOptional())
	public.GET("/", feedController.Index)
	public.GET("/login", authController.LoginPage)
	public.POST("/login", authController.Login)
	public.POST("/logout", authController.Logout)
	public.GET("/register", authController.RegisterPage)
	public.POST("/register", authController.Register)
	public.GET("/posts", postController.ListPosts)
	public.GET("/posts/:id", postController.GetPost)
	// Anonymous callers reach the handlers and are refused as non-owners
	public.PUT("/posts/:id", postController.UpdatePost)
	public.DELETE("/posts/:id", postController.DeletePost)
	public.GET("/:username", feedController.Profile)

	protected := r.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/post", postController.CreatePost)
	protected.GET("/following", feedController.Following)
	protected.POST("/like/:post_id", likeController.Like)
	protected.POST("/unlike/:post_id", likeController.Unlike)
	protected.POST("/follow/:username", socialController.Follow)
	protected.POST("/unfollow/:username", socialController.Unfollow)
	protected.DELETE("/account", authController.DeleteAccount)

	r.NoMethod(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusMethodNotAllowed, 40500, "Method not supported")
	})
	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
