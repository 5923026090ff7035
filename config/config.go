package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"okrtracker/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type SMTPConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
}

// Enabled reports whether outgoing mail is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.FromEmail != ""
}

type Config struct {
	Environment         string        `json:"environment"`
	ServerPort          string        `json:"server_port"`
	LogLevel            string        `json:"log_level"`
	SentryDSN           string        `json:"-"`
	SessionSecret       string        `json:"-"`
	JWTSecret           string        `json:"-"`
	JWTIssuer           string        `json:"jwt_issuer"`
	TokenTTL            time.Duration `json:"token_ttl"`
	SessionTTL          time.Duration `json:"session_ttl"`
	SessionCookieSecure bool          `json:"session_cookie_secure"`
	BcryptCost          int           `json:"bcrypt_cost"`
	CORSAllowedOrigins  []string      `json:"cors_allowed_origins"`
	DBHost              string        `json:"db_host"`
	DBPort              string        `json:"db_port"`
	DBUser              string        `json:"db_user"`
	DBPassword          string        `json:"-"`
	DBName              string        `json:"db_name"`
	DBSSLMode           string        `json:"db_ssl_mode"`
	DBMaxIdleConns      int           `json:"db_max_idle_conns"`
	DBMaxOpenConns      int           `json:"db_max_open_conns"`
	Redis               RedisConfig   `json:"redis"`
	SMTP                SMTPConfig    `json:"smtp"`
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func init() {
	// A missing .env file is fine, the process environment is used as is.
	_ = godotenv.Load()
}

// LoadConfig reads the environment into AppConfig. The session and token
// signing secrets are required; the service must not start without them.
func LoadConfig() error {
	AppConfig = Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		ServerPort:          getEnv("SERVER_PORT", "3000"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		SessionSecret:       getEnv("SESSION_SECRET", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTIssuer:           getEnv("JWT_ISSUER", "okrtracker"),
		TokenTTL:            getEnvAsDuration("TOKEN_TTL", time.Hour),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		SessionCookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		BcryptCost:          getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),
		CORSAllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBName:              getEnv("DB_NAME", "okrtracker"),
		DBSSLMode:           getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns:      getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:      getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromEmail: getEnv("SMTP_FROM_EMAIL", ""),
			FromName:  getEnv("SMTP_FROM_NAME", "OKR Tracker"),
		},
	}

	if AppConfig.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if AppConfig.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if AppConfig.BcryptCost < bcrypt.MinCost || AppConfig.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if AppConfig.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	logConfig()
	return nil
}

// DSN builds the postgres connection string for the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}

func ConnectDB() error {
	log.Println("Attempting to connect to database...")

	dsn := AppConfig.DSN()
	log.Println("Using connection string:", maskPassword(dsn))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Println("Successfully connected to the database")
	if err := migrateDB(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Println("Database migration completed")
	return nil
}

// CloseDB releases the connection pool.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	log.Println("Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Database: %s@%s:%s/%s",
		AppConfig.DBUser,
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBName)
	log.Printf("Sessions: redis(%t) ttl=%s, tokens ttl=%s",
		AppConfig.Redis.Enabled,
		AppConfig.SessionTTL,
		AppConfig.TokenTTL)
	log.Printf("Mail: smtp(%t)", AppConfig.SMTP.Enabled())
}

func migrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Objective{},
		&models.KeyResult{},
	)
}
