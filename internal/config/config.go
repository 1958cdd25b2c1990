package config

import (
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Advice  AdviceConfig
	Cache   CacheConfig
	Archive ArchiveConfig
	Drive   DriveConfig
	App     AppConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type AdviceConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
	Concurrency    int
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	AdviceTTLSeconds int
}

type ArchiveConfig struct {
	Enabled   bool
	Driver    string
	Dir       string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type DriveConfig struct {
	CredentialsJSON string
}

type AppConfig struct {
	SeedDemoData bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults(viper.GetViper())

		// Read from environment variables
		viper.AutomaticEnv()

		instance = fromViper(viper.GetViper())
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 60)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("ADVICE_TIMEOUT_SECONDS", 30)
	v.SetDefault("ADVICE_CONCURRENCY", 4)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ADVICE_TTL_SECONDS", 900)

	v.SetDefault("ARCHIVE_ENABLED", false)
	v.SetDefault("ARCHIVE_DRIVER", "minio")
	v.SetDefault("ARCHIVE_DIR", "./data/exports")
	v.SetDefault("ARCHIVE_ENDPOINT", "localhost:9000")
	v.SetDefault("ARCHIVE_ACCESS_KEY", "")
	v.SetDefault("ARCHIVE_SECRET_KEY", "")
	v.SetDefault("ARCHIVE_BUCKET", "stockroom")
	v.SetDefault("ARCHIVE_REGION", "")
	v.SetDefault("ARCHIVE_USE_SSL", false)
	v.SetDefault("ARCHIVE_PREFIX", "exports")

	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("SEED_DEMO_DATA", true)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Advice: AdviceConfig{
			APIKey:         v.GetString("GEMINI_API_KEY"),
			Model:          v.GetString("GEMINI_MODEL"),
			TimeoutSeconds: v.GetInt("ADVICE_TIMEOUT_SECONDS"),
			Concurrency:    v.GetInt("ADVICE_CONCURRENCY"),
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			AdviceTTLSeconds: v.GetInt("CACHE_ADVICE_TTL_SECONDS"),
		},
		Archive: ArchiveConfig{
			Enabled:   v.GetBool("ARCHIVE_ENABLED"),
			Driver:    v.GetString("ARCHIVE_DRIVER"),
			Dir:       v.GetString("ARCHIVE_DIR"),
			Endpoint:  v.GetString("ARCHIVE_ENDPOINT"),
			AccessKey: v.GetString("ARCHIVE_ACCESS_KEY"),
			SecretKey: v.GetString("ARCHIVE_SECRET_KEY"),
			Bucket:    v.GetString("ARCHIVE_BUCKET"),
			Region:    v.GetString("ARCHIVE_REGION"),
			UseSSL:    v.GetBool("ARCHIVE_USE_SSL"),
			Prefix:    v.GetString("ARCHIVE_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
		},
		App: AppConfig{
			SeedDemoData: v.GetBool("SEED_DEMO_DATA"),
		},
	}
}

// Timeout is the per-call deadline for advice generation.
func (c AdviceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AdviceTTL is how long a generated answer is reused.
func (c CacheConfig) AdviceTTL() time.Duration {
	return time.Duration(c.AdviceTTLSeconds) * time.Second
}
