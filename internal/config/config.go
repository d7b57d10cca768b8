package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is the development-only secret shipped in defaults.
const DefaultSessionSecret = "change-me-session-secret"

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Mode         string // debug, release, test
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Issuer     string
	Secure     bool
}

type StorageConfig struct {
	Driver            string // local, s3
	LocalDir          string
	PublicURL         string
	S3Bucket          string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

type RateLimitConfig struct {
	AuthRequests    int
	MessageRequests int
	Window          time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("FORUM")
	viper.AutomaticEnv()

	setDefaults()

	// The config file is optional; env and defaults cover every key.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVariables()

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("server.host"),
			Port:         viper.GetInt("server.port"),
			Mode:         viper.GetString("server.mode"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			StaticDir:    viper.GetString("server.static_dir"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("database.host"),
			Port:            viper.GetInt("database.port"),
			User:            viper.GetString("database.user"),
			Password:        viper.GetString("database.password"),
			DBName:          viper.GetString("database.dbname"),
			SSLMode:         viper.GetString("database.sslmode"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
			AutoMigrate:     viper.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			PoolSize: viper.GetInt("redis.pool_size"),
		},
		Session: SessionConfig{
			Secret:     viper.GetString("session.secret"),
			CookieName: viper.GetString("session.cookie_name"),
			TTL:        viper.GetDuration("session.ttl"),
			Issuer:     viper.GetString("session.issuer"),
			Secure:     viper.GetBool("session.secure"),
		},
		Storage: StorageConfig{
			Driver:            viper.GetString("storage.driver"),
			LocalDir:          viper.GetString("storage.local_dir"),
			PublicURL:         viper.GetString("storage.public_url"),
			S3Bucket:          viper.GetString("storage.s3_bucket"),
			S3Endpoint:        viper.GetString("storage.s3_endpoint"),
			S3Region:          viper.GetString("storage.s3_region"),
			S3AccessKeyID:     viper.GetString("storage.s3_access_key_id"),
			S3SecretAccessKey: viper.GetString("storage.s3_secret_access_key"),
		},
		RateLimit: RateLimitConfig{
			AuthRequests:    viper.GetInt("ratelimit.auth_requests"),
			MessageRequests: viper.GetInt("ratelimit.message_requests"),
			Window:          viper.GetDuration("ratelimit.window"),
		},
		Log: LogConfig{
			Level:      viper.GetString("log.level"),
			Format:     viper.GetString("log.format"),
			OutputPath: viper.GetString("log.output_path"),
		},
	}

	return cfg, nil
}

// Validate rejects settings that are unsafe or incomplete for the selected mode.
func (c *Config) Validate() error {
	if c.Server.Mode == "release" && (c.Session.Secret == "" || c.Session.Secret == DefaultSessionSecret) {
		return errors.New("session.secret must be set in release mode")
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return errors.New("storage.s3_bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.static_dir", "./static")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "forum")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.auto_migrate", true)

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	// Session defaults
	viper.SetDefault("session.secret", DefaultSessionSecret)
	viper.SetDefault("session.cookie_name", "forum_session")
	viper.SetDefault("session.ttl", "336h") // 14 days
	viper.SetDefault("session.issuer", "forum")
	viper.SetDefault("session.secure", false)

	// Storage defaults
	viper.SetDefault("storage.driver", "local")
	viper.SetDefault("storage.local_dir", "./uploads")
	viper.SetDefault("storage.public_url", "/uploads")
	viper.SetDefault("storage.s3_region", "auto")

	// Rate limit defaults
	viper.SetDefault("ratelimit.auth_requests", 10)
	viper.SetDefault("ratelimit.message_requests", 60)
	viper.SetDefault("ratelimit.window", "1m")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output_path", "stdout")
}

func bindEnvVariables() {
	// Server
	_ = viper.BindEnv("server.host", "SERVER_HOST")
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.mode", "SERVER_MODE")
	_ = viper.BindEnv("server.static_dir", "STATIC_DIR")

	// Database
	_ = viper.BindEnv("database.host", "DB_HOST")
	_ = viper.BindEnv("database.port", "DB_PORT")
	_ = viper.BindEnv("database.user", "DB_USER")
	_ = viper.BindEnv("database.password", "DB_PASSWORD")
	_ = viper.BindEnv("database.dbname", "DB_NAME")
	_ = viper.BindEnv("database.sslmode", "DB_SSLMODE")
	_ = viper.BindEnv("database.auto_migrate", "DB_AUTO_MIGRATE")

	// Redis
	_ = viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = viper.BindEnv("redis.host", "REDIS_HOST")
	_ = viper.BindEnv("redis.port", "REDIS_PORT")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Session
	_ = viper.BindEnv("session.secret", "SESSION_SECRET")
	_ = viper.BindEnv("session.secure", "SESSION_SECURE")

	// Storage
	_ = viper.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = viper.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	_ = viper.BindEnv("storage.s3_bucket", "S3_BUCKET")
	_ = viper.BindEnv("storage.s3_endpoint", "S3_ENDPOINT")
	_ = viper.BindEnv("storage.s3_access_key_id", "S3_ACCESS_KEY_ID")
	_ = viper.BindEnv("storage.s3_secret_access_key", "S3_SECRET_ACCESS_KEY")

	// Log
	_ = viper.BindEnv("log.level", "LOG_LEVEL")
	_ = viper.BindEnv("log.format", "LOG_FORMAT")
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr returns server address
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
