package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"rental-app-go/pkg/logger"
)

type Config struct {
	Env           string
	HTTP          HTTPConfig
	DB            DBConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Outbox        OutboxConfig
	Billing       BillingConfig
	Notifications NotificationsConfig
	Metrics       MetricsConfig
	TopProperties TopPropertiesConfig
	Log           logger.Config
}

type HTTPConfig struct {
	Port            string
	AllowedOrigins  []string
	CORSMaxAge      time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	SupabaseURL    string
	PublishableKey string
	JWTSecret      string
	Timeout        time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserRole   string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	Stream       string
	StreamMaxLen int64
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type OutboxConfig struct {
	Enabled     bool
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

type BillingConfig struct {
	ReminderDaysAhead int
	ReminderInterval  time.Duration
}

type NotificationsConfig struct {
	DefaultLocale  string
	UnreadCacheTTL time.Duration
}

type TopPropertiesConfig struct {
	Enabled       bool
	LookbackDays  int
	DBReadLimit   int
	MinRecords    int
	ResponseCount int
	CacheTTL      time.Duration
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// Load reads configuration from the environment. Dotenv files (see
// loadDotEnv) and the YAML file named by CONFIG_FILE fill in variables the
// environment does not set.
func Load(log logger.Logger) (Config, error) {
	if _, err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, fmt.Errorf("load config file: %w", err)
	}
	if file != nil {
		log.Info("config: loaded file", "path", os.Getenv("CONFIG_FILE"))
	}
	return fromSource(source{file: file}), nil
}

func fromSource(src source) Config {
	env := src.str("ENV", "development")
	return Config{
		Env: env,
		HTTP: HTTPConfig{
			Port:            src.str("HTTP_PORT", "8080"),
			AllowedOrigins:  src.list("HTTP_ALLOWED_ORIGINS", []string{"*"}),
			CORSMaxAge:      src.duration("HTTP_CORS_MAX_AGE", 24*time.Hour),
			ReadTimeout:     src.duration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    src.duration("HTTP_WRITE_TIMEOUT", 35*time.Second),
			IdleTimeout:     src.duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: src.duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(src.str("DB_DRIVER", "postgres")),
			DSN:             src.str("DB_DSN", ""),
			Host:            src.str("DB_HOST", "localhost"),
			Port:            src.str("DB_PORT", "5432"),
			User:            src.str("DB_USER", "postgres"),
			Password:        src.str("DB_PASSWORD", "postgres"),
			Name:            src.str("DB_NAME", "rental_app"),
			SSLMode:         src.str("DB_SSLMODE", "disable"),
			TimeZone:        src.str("DB_TIMEZONE", "UTC"),
			SQLitePath:      src.str("DB_SQLITE_PATH", "rental.db"),
			MaxOpenConns:    src.integer("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    src.integer("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: src.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			SupabaseURL:    src.str("SUPABASE_URL", ""),
			PublishableKey: src.str("SUPABASE_PUBLISHABLE_KEY", ""),
			JWTSecret:      src.str("SUPABASE_JWT_SECRET", ""),
			Timeout:        src.duration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       src.boolean("AUTH_SKIP", false),
			MockUserID:     src.str("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  src.str("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   src.str("AUTH_MOCK_USER_NAME", ""),
			MockUserRole:   src.str("AUTH_MOCK_USER_ROLE", "landlord"),
		},
		Redis: RedisConfig{
			Addr:         src.str("REDIS_ADDR", ""),
			Password:     src.str("REDIS_PASSWORD", ""),
			DB:           src.integer("REDIS_DB", 0),
			Stream:       src.str("REDIS_NOTIFICATION_STREAM", "rental:notifications"),
			StreamMaxLen: int64(src.integer("REDIS_STREAM_MAX_LEN", 10000)),
		},
		Outbox: OutboxConfig{
			Enabled:     src.boolean("OUTBOX_ENABLED", true),
			Interval:    src.duration("OUTBOX_INTERVAL", 2*time.Second),
			BatchSize:   src.integer("OUTBOX_BATCH_SIZE", 100),
			MaxAttempts: src.integer("OUTBOX_MAX_ATTEMPTS", 5),
			BaseBackoff: src.duration("OUTBOX_BASE_BACKOFF", 5*time.Second),
			MaxBackoff:  src.duration("OUTBOX_MAX_BACKOFF", 10*time.Minute),
		},
		Billing: BillingConfig{
			ReminderDaysAhead: src.integer("BILLING_REMINDER_DAYS_AHEAD", 3),
			ReminderInterval:  src.duration("BILLING_REMINDER_INTERVAL", time.Hour),
		},
		Notifications: NotificationsConfig{
			DefaultLocale:  src.str("NOTIFICATIONS_DEFAULT_LOCALE", "zh"),
			UnreadCacheTTL: src.duration("NOTIFICATIONS_UNREAD_CACHE_TTL", 30*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled:   src.boolean("METRICS_ENABLED", true),
			Namespace: src.str("METRICS_NAMESPACE", "rental"),
		},
		TopProperties: TopPropertiesConfig{
			Enabled:       src.boolean("ANALYTICS_TOP_PROPERTIES_ENABLED", true),
			LookbackDays:  src.integer("ANALYTICS_TOP_PROPERTIES_LOOKBACK_DAYS", 90),
			DBReadLimit:   src.integer("ANALYTICS_TOP_PROPERTIES_DB_READ_LIMIT", 1000),
			MinRecords:    src.integer("ANALYTICS_TOP_PROPERTIES_MIN_RECORDS", 3),
			ResponseCount: src.integer("ANALYTICS_TOP_PROPERTIES_RESPONSE_COUNT", 5),
			CacheTTL:      src.duration("ANALYTICS_TOP_PROPERTIES_CACHE_TTL", time.Minute),
		},
		Log: logger.Config{
			Env:        env,
			Level:      src.str("LOG_LEVEL", ""),
			Format:     src.str("LOG_FORMAT", "json"),
			Output:     src.str("LOG_OUTPUT", "stdout"),
			File:       src.str("LOG_FILE", "logs/rental-app.log"),
			MaxSizeMB:  src.integer("LOG_MAX_SIZE_MB", 100),
			MaxBackups: src.integer("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: src.integer("LOG_MAX_AGE_DAYS", 30),
		},
	}
}

// source resolves a key from the environment first, then the config file.
type source struct {
	file map[string]string
}

func (s source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s source) str(key, fallback string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	return fallback
}

func (s source) integer(key string, fallback int) int {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s source) duration(key string, fallback time.Duration) time.Duration {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s source) boolean(key string, fallback bool) bool {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (s source) list(key string, fallback []string) []string {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
