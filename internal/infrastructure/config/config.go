package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. IMS_DATABASE_PASSWORD
const EnvPrefix = "IMS"

// Config is the full service configuration. Keys in config.toml and IMS_
// environment variables follow the mapstructure tags, e.g. database.max_open_conns
// or IMS_DATABASE_MAX_OPEN_CONNS.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Mail      MailConfig      `mapstructure:"mail"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Alert     AlertConfig     `mapstructure:"alert"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Report    ReportConfig    `mapstructure:"report"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
	// DashboardURL is the web UI base used for links in alert emails
	DashboardURL string `mapstructure:"dashboard_url"`
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig describes the PostgreSQL connection and pool.
// Lifetimes are in minutes.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis connection settings. When disabled, idempotency
// keys and revoked tokens are kept in process memory.
type RedisConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds token signing settings. RefreshSecret defaults to Secret.
type JWTConfig struct {
	Secret                  string        `mapstructure:"secret"`
	RefreshSecret           string        `mapstructure:"refresh_secret"`
	AccessTokenExpiration   time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration  time.Duration `mapstructure:"refresh_token_expiration"`
	// PasswordResetExpiration bounds how long an emailed reset link works
	PasswordResetExpiration time.Duration `mapstructure:"password_reset_expiration"`
	Issuer                  string        `mapstructure:"issuer"`
	MaxRefreshCount         int           `mapstructure:"max_refresh_count"`
}

// LogConfig selects level, encoding and destination. Rotation settings
// apply when Output is a file path.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	SwaggerEnabled   bool          `mapstructure:"swagger_enabled"`
	// LoginRateLimit is the number of login attempts per client IP in LoginRateWindow
	LoginRateLimit  int           `mapstructure:"login_rate_limit"`
	LoginRateWindow time.Duration `mapstructure:"login_rate_window"`
}

// MailConfig holds SMTP settings for alert emails
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	SSL      bool   `mapstructure:"ssl"`
}

// StorageConfig holds S3-compatible object storage settings for product images
type StorageConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	UsePathStyle  bool   `mapstructure:"use_path_style"`
}

// AlertConfig controls how low-stock alerts are dispatched
type AlertConfig struct {
	// Async runs the notifier on a bounded goroutine pool
	Async    bool          `mapstructure:"async"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig holds the low-stock digest schedule
type SchedulerConfig struct {
	DigestEnabled  bool          `mapstructure:"digest_enabled"`
	DigestSchedule string        `mapstructure:"digest_schedule"`
	JobTimeout     time.Duration `mapstructure:"job_timeout"`
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// ReportConfig holds export settings
type ReportConfig struct {
	Locale     string        `mapstructure:"locale"`
	Currency   string        `mapstructure:"currency"`
	PDFTimeout time.Duration `mapstructure:"pdf_timeout"`
	ChromePath string        `mapstructure:"chrome_path"`
}

// defaults lists every key viper should know about. Keys without a
// meaningful default are still listed so that IMS_ variables reach Unmarshal.
var defaults = map[string]any{
	"app.name":          "ims-backend",
	"app.env":           "development",
	"app.port":          "8080",
	"app.dashboard_url": "",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "ims",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":         false,
	"redis.host":            "localhost",
	"redis.port":            6379,
	"redis.password":        "",
	"redis.db":              0,
	"redis.idempotency_ttl": 24 * time.Hour,

	"jwt.secret":                    "",
	"jwt.refresh_secret":            "",
	"jwt.access_token_expiration":   15 * time.Minute,
	"jwt.refresh_token_expiration":  7 * 24 * time.Hour,
	"jwt.password_reset_expiration": 30 * time.Minute,
	"jwt.issuer":                    "ims-backend",
	"jwt.max_refresh_count":         10,

	"log.level":        "info",
	"log.format":       "console",
	"log.output":       "stdout",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 28,
	"log.compress":     false,

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      60 * time.Second, // PDF export
	"http.idle_timeout":       60 * time.Second,
	"http.shutdown_timeout":   30 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      4 << 20, // image uploads are capped at 2MB
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"},
	"http.trusted_proxies":    []string{},
	"http.swagger_enabled":    false,
	"http.login_rate_limit":   10,
	"http.login_rate_window":  time.Minute,

	"mail.enabled":   false,
	"mail.host":      "",
	"mail.port":      587,
	"mail.username":  "",
	"mail.password":  "",
	"mail.from":      "",
	"mail.from_name": "Inventory Alerts",
	"mail.ssl":       false,

	"storage.enabled":         false,
	"storage.endpoint":        "",
	"storage.region":          "us-east-1",
	"storage.bucket":          "product-images",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.public_base_url": "",
	"storage.use_path_style":  false,

	"alert.async":     false,
	"alert.pool_size": 16,
	"alert.timeout":   30 * time.Second,

	"scheduler.digest_enabled":  false,
	"scheduler.digest_schedule": "0 8 * * *",
	"scheduler.job_timeout":     5 * time.Minute,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "ims-backend",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,

	"report.locale":      "id-ID",
	"report.currency":    "IDR",
	"report.pdf_timeout": 30 * time.Second,
	"report.chrome_path": "",
}

// Load reads configuration with this precedence:
//  1. IMS_ environment variables (IMS_DATABASE_PASSWORD)
//  2. .env in the working directory, which never overrides the real environment
//  3. config.toml in . or /app
//  4. defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.toml: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.IsProduction() {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		return fmt.Errorf("mail.host and mail.from are required when mail is enabled")
	}
	if c.Storage.Enabled && c.Storage.PublicBaseURL == "" && c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.public_base_url or storage.endpoint is required when storage is enabled")
	}
	if c.Alert.Async && c.Alert.PoolSize <= 0 {
		return fmt.Errorf("alert.pool_size must be positive")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN renders a postgres:// URL with user, password and database escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
