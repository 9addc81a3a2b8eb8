package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig

	AI       AIConfig
	WhatsApp WhatsAppConfig
	Telegram TelegramConfig
	Admin    AdminConfig
	Webhook  WebhookConfig
	Files    FilesConfig
	Cache    CacheConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AIConfig declares the provider roster and per-provider key pools.
type AIConfig struct {
	DefaultProvider string
	RequestTimeout  time.Duration
	AnthropicKeys   []string
	AnthropicModel  string
	GeminiKeys      []string
	GeminiModel     string
	OpenRouterKeys  []string
	OpenRouterModel string
}

// WhatsAppConfig points at the WAHA gateway used for outbound replies.
type WhatsAppConfig struct {
	BaseURL     string
	Session     string
	APIKey      string
	VerifyToken string
}

// TelegramConfig holds the bot token and the webhook secret Telegram echoes back.
type TelegramConfig struct {
	BotToken      string
	WebhookSecret string
}

// AdminConfig seeds the super-admin allowlist from the environment.
type AdminConfig struct {
	SuperAdminPhones []string
}

// WebhookConfig tunes the asynchronous webhook processing queue.
type WebhookConfig struct {
	QueueWorkers    int
	QueueBufferSize int
	QueueMaxRetries int
	QueueRetryDelay time.Duration
}

// FilesConfig controls local file storage and signed download URLs.
type FilesConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// CacheConfig tunes the profile/action lookup cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.AI = AIConfig{
		DefaultProvider: v.GetString("AI_DEFAULT_PROVIDER"),
		RequestTimeout:  parseDuration(v.GetString("AI_REQUEST_TIMEOUT"), 30*time.Second),
		AnthropicKeys:   numberedKeys(v, "ANTHROPIC_API_KEY"),
		AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
		GeminiKeys:      numberedKeys(v, "GEMINI_API_KEY"),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		OpenRouterKeys:  numberedKeys(v, "OPENROUTER_API_KEY"),
		OpenRouterModel: v.GetString("OPENROUTER_MODEL"),
	}

	cfg.WhatsApp = WhatsAppConfig{
		BaseURL:     v.GetString("WAHA_BASE_URL"),
		Session:     v.GetString("WAHA_SESSION"),
		APIKey:      v.GetString("WAHA_API_KEY"),
		VerifyToken: v.GetString("WAHA_VERIFY_TOKEN"),
	}

	cfg.Telegram = TelegramConfig{
		BotToken:      v.GetString("TELEGRAM_BOT_TOKEN"),
		WebhookSecret: v.GetString("TELEGRAM_WEBHOOK_SECRET"),
	}

	cfg.Admin = AdminConfig{
		SuperAdminPhones: splitAndTrim(v.GetString("SUPER_ADMIN_PHONES")),
	}

	cfg.Webhook = WebhookConfig{
		QueueWorkers:    v.GetInt("WEBHOOK_QUEUE_WORKERS"),
		QueueBufferSize: v.GetInt("WEBHOOK_QUEUE_BUFFER"),
		QueueMaxRetries: v.GetInt("WEBHOOK_QUEUE_RETRIES"),
		QueueRetryDelay: parseDuration(v.GetString("WEBHOOK_QUEUE_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Files = FilesConfig{
		StorageDir:      v.GetString("FILES_STORAGE_DIR"),
		SignedURLSecret: v.GetString("FILES_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("FILES_SIGNED_URL_TTL"), 30*time.Minute),
		CleanupInterval: parseDuration(v.GetString("FILES_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_LOOKUP_CACHE"),
		TTL:     parseDuration(v.GetString("LOOKUP_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "catechese")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "ai-concierge")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AI_DEFAULT_PROVIDER", "anthropic")
	v.SetDefault("AI_REQUEST_TIMEOUT", "30s")
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENROUTER_MODEL", "meta-llama/llama-3.1-8b-instruct")

	v.SetDefault("WAHA_BASE_URL", "http://localhost:3000")
	v.SetDefault("WAHA_SESSION", "default")

	v.SetDefault("WEBHOOK_QUEUE_WORKERS", 2)
	v.SetDefault("WEBHOOK_QUEUE_BUFFER", 64)
	v.SetDefault("WEBHOOK_QUEUE_RETRIES", 2)
	v.SetDefault("WEBHOOK_QUEUE_RETRY_DELAY", "2s")

	v.SetDefault("FILES_STORAGE_DIR", "./files")
	v.SetDefault("FILES_SIGNED_URL_SECRET", "dev_files_secret")
	v.SetDefault("FILES_SIGNED_URL_TTL", "30m")
	v.SetDefault("FILES_CLEANUP_INTERVAL", "1h")

	v.SetDefault("ENABLE_LOOKUP_CACHE", true)
	v.SetDefault("LOOKUP_CACHE_TTL", "5m")
}

// numberedKeys collects PREFIX_1..PREFIX_4 plus the bare PREFIX variable,
// skipping empty slots.
func numberedKeys(v *viper.Viper, prefix string) []string {
	keys := make([]string, 0, 5)
	if raw := strings.TrimSpace(v.GetString(prefix)); raw != "" {
		keys = append(keys, raw)
	}
	for i := 1; i <= 4; i++ {
		if raw := strings.TrimSpace(v.GetString(fmt.Sprintf("%s_%d", prefix, i))); raw != "" {
			keys = append(keys, raw)
		}
	}
	return keys
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
