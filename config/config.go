package config

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort         string
	JWTSecret       string
	SessionTTLHours int
	CookieName      string
	CookieSecure    bool
	AllowedOrigins  []string
	// Database
	DBDriver    string // mysql, postgres, sqlite
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPath      string // sqlite only
	// Gin framework configuration
	GinMode string
	GinPath string
	// Redis for session revocation and list caching; empty host disables it
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Telemetry
	ServiceName  string
	SentryDSN    string
	OTLPEndpoint string
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.Mutex
)

// binding maps a grouped config file key onto its environment variable.
type binding struct {
	key string
	env string
}

var bindings = []binding{
	{"app.port", "APP_PORT"},
	{"app.jwt_secret", "JWT_SECRET"},
	{"app.session_ttl_hours", "SESSION_TTL_HOURS"},
	{"app.cookie_name", "COOKIE_NAME"},
	{"app.cookie_secure", "COOKIE_SECURE"},
	{"app.allowed_origins", "CORS_ALLOWED_ORIGINS"},
	{"gin.mode", "GIN_MODE"},
	{"gin.log_path", "GIN_PATH"},
	{"database.driver", "DB_DRIVER"},
	{"database.uri", "DATABASE_URI"},
	{"database.host", "DB_HOST"},
	{"database.port", "DB_PORT"},
	{"database.user", "DB_USER"},
	{"database.password", "DB_PASSWORD"},
	{"database.name", "DB_NAME"},
	{"database.path", "DB_PATH"},
	{"redis.host", "REDIS_HOST"},
	{"redis.port", "REDIS_PORT"},
	{"redis.db", "REDIS_DB"},
	{"redis.password", "REDIS_PASSWORD"},
	{"log.level", "LOG_LEVEL"},
	{"log.path", "LOG_PATH"},
	{"log.max_size_mb", "LOG_MAX_SIZE_MB"},
	{"log.max_backups", "LOG_MAX_BACKUPS"},
	{"log.max_age_days", "LOG_MAX_AGE_DAYS"},
	{"log.compress", "LOG_COMPRESS"},
	{"telemetry.service_name", "SERVICE_NAME"},
	{"telemetry.sentry_dsn", "SENTRY_DSN"},
	{"telemetry.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT"},
}

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	// Precedence: defaults -> config/config.json -> .env -> environment variables
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment variables")
	}

	v, err := newViper("config")
	if err != nil {
		log.Fatalf("invalid config file: %v", err)
	}
	cfg = fromViper(v)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.Lock()
	ok := loaded
	mu.Unlock()
	if !ok {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Missing values are filled with defaults.
func Set(c AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	applyDefaults(&c)
	cfg = c
	loaded = true
}

// newViper builds a viper instance reading config.json from dir (when present) and the environment.
func newViper(dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	for _, b := range bindings {
		_ = v.BindEnv(b.key, b.env)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper) AppConfig {
	c := AppConfig{
		AppPort:         v.GetString("app.port"),
		JWTSecret:       v.GetString("app.jwt_secret"),
		SessionTTLHours: v.GetInt("app.session_ttl_hours"),
		CookieName:      v.GetString("app.cookie_name"),
		CookieSecure:    v.GetBool("app.cookie_secure"),
		AllowedOrigins:  readList(v, "app.allowed_origins"),
		GinMode:         v.GetString("gin.mode"),
		GinPath:         v.GetString("gin.log_path"),
		DBDriver:        strings.ToLower(v.GetString("database.driver")),
		DatabaseURI:     v.GetString("database.uri"),
		DBHost:          v.GetString("database.host"),
		DBPort:          v.GetString("database.port"),
		DBUser:          v.GetString("database.user"),
		DBPassword:      v.GetString("database.password"),
		DBName:          v.GetString("database.name"),
		DBPath:          v.GetString("database.path"),
		RedisHost:       v.GetString("redis.host"),
		RedisPort:       v.GetInt("redis.port"),
		RedisDB:         v.GetInt("redis.db"),
		RedisPassword:   v.GetString("redis.password"),
		LogLevel:        v.GetString("log.level"),
		LogPath:         v.GetString("log.path"),
		LogMaxSizeMB:    v.GetInt("log.max_size_mb"),
		LogMaxBackups:   v.GetInt("log.max_backups"),
		LogMaxAgeDays:   v.GetInt("log.max_age_days"),
		LogCompress:     v.GetBool("log.compress"),
		ServiceName:     v.GetString("telemetry.service_name"),
		SentryDSN:       v.GetString("telemetry.sentry_dsn"),
		OTLPEndpoint:    v.GetString("telemetry.otlp_endpoint"),
	}
	applyDefaults(&c)
	return c
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 72
	}
	if c.CookieName == "" {
		c.CookieName = "session"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		switch c.DBDriver {
		case "postgres":
			c.DBPort = "5432"
		default:
			c.DBPort = "3306"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "network"
	}
	if c.DBPath == "" {
		c.DBPath = "network.db"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.ServiceName == "" {
		c.ServiceName = "network"
	}
}

// readList accepts both JSON arrays and comma separated env values.
func readList(v *viper.Viper, key string) []string {
	var items []string
	for _, raw := range v.GetStringSlice(key) {
		items = append(items, splitAndTrim(raw)...)
	}
	return items
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
