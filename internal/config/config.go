package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"weatherproxy.app/pkg/errors"
)

const (
	maxRedisDB         = 15
	maxCacheTTLSeconds = 86400
	maxFetchTimeout    = 120
	maxPortNumber      = 65535
)

// Config represents the application configuration structure
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	Cache     CacheConfig     `split_words:"true"`
	Redis     RedisConfig     `split_words:"true"`
	Storage   StorageConfig   `split_words:"true"`
	EventLog  EventLogConfig  `split_words:"true"`
	RateLimit RateLimitConfig `split_words:"true"`
	Admin     AdminConfig     `split_words:"true"`
	Log       LogConfig       `split_words:"true"`
}

type ServerConfig struct {
	Port                   int `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeoutSeconds int `envconfig:"SERVER_SHUTDOWN_TIMEOUT_SECONDS" default:"30"`
}

type WeatherConfig struct {
	APIKey                       string `envconfig:"OPENWEATHERMAP_API_KEY"`
	BaseURL                      string `envconfig:"OPENWEATHERMAP_BASE_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	FetchTimeoutSeconds          int    `envconfig:"WEATHER_FETCH_TIMEOUT_SECONDS" default:"10"`
	EnableLogging                bool   `envconfig:"WEATHER_ENABLE_LOGGING" default:"true"`
	LogFilePath                  string `envconfig:"WEATHER_LOG_FILE_PATH"`
	CircuitBreakerEnabled        bool   `envconfig:"WEATHER_CIRCUIT_BREAKER_ENABLED" default:"false"`
	CircuitBreakerMaxFailures    uint32 `envconfig:"WEATHER_CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`
	CircuitBreakerTimeoutSeconds int    `envconfig:"WEATHER_CIRCUIT_BREAKER_TIMEOUT_SECONDS" default:"60"`
}

// Configured reports whether an upstream API key is present
func (w WeatherConfig) Configured() bool {
	return strings.TrimSpace(w.APIKey) != ""
}

func (w WeatherConfig) FetchTimeout() time.Duration {
	return time.Duration(w.FetchTimeoutSeconds) * time.Second
}

func (w WeatherConfig) CircuitBreakerTimeout() time.Duration {
	return time.Duration(w.CircuitBreakerTimeoutSeconds) * time.Second
}

// CacheType represents the type of cache to use
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type       CacheType `envconfig:"CACHE_TYPE" default:"memory"`
	TTLSeconds int       `envconfig:"CACHE_TTL_SECONDS" default:"300"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	KeyPrefix    string `envconfig:"REDIS_KEY_PREFIX" default:"weatherproxy:"`
}

// SnapshotStoreType selects where snapshots are written
type SnapshotStoreType int

const (
	SnapshotStoreUnknown SnapshotStoreType = iota
	SnapshotStoreFile
	SnapshotStoreRedis
)

func (s SnapshotStoreType) String() string {
	switch s {
	case SnapshotStoreFile:
		return "file"
	case SnapshotStoreRedis:
		return "redis"
	default:
		return "unknown"
	}
}

func (s *SnapshotStoreType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "file":
		*s = SnapshotStoreFile
	case "redis":
		*s = SnapshotStoreRedis
	default:
		*s = SnapshotStoreUnknown
	}
	return nil
}

type StorageConfig struct {
	Type    SnapshotStoreType `envconfig:"SNAPSHOT_STORE" default:"file"`
	DataDir string            `envconfig:"DATA_DIR" default:"data"`
}

// EventLogDriver selects the gorm dialector for the event log
type EventLogDriver int

const (
	EventLogDriverUnknown EventLogDriver = iota
	EventLogDriverSQLite
	EventLogDriverPostgres
)

func (d EventLogDriver) String() string {
	switch d {
	case EventLogDriverSQLite:
		return "sqlite"
	case EventLogDriverPostgres:
		return "postgres"
	default:
		return "unknown"
	}
}

func (d *EventLogDriver) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "sqlite":
		*d = EventLogDriverSQLite
	case "postgres":
		*d = EventLogDriverPostgres
	default:
		*d = EventLogDriverUnknown
	}
	return nil
}

type EventLogConfig struct {
	Driver     EventLogDriver `envconfig:"EVENT_LOG_DRIVER" default:"sqlite"`
	LogsDir    string         `envconfig:"LOGS_DIR" default:"logs"`
	SQLitePath string         `envconfig:"EVENT_LOG_SQLITE_PATH"`
	Database   DatabaseConfig `split_words:"true"`
}

// SQLiteFile returns the sqlite database path, defaulting to events.db in LogsDir
func (e EventLogConfig) SQLiteFile() string {
	if e.SQLitePath != "" {
		return e.SQLitePath
	}
	return filepath.Join(e.LogsDir, "events.db")
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"weatherproxy"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Rate is a request budget per fixed window, written as "<count>/<second|minute|hour|day>"
type Rate struct {
	Limit  int
	Window time.Duration
}

// ParseRate parses values such as "100/minute" or "5/second"
func ParseRate(s string) (Rate, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return Rate{}, fmt.Errorf("rate %q must look like <count>/<period>", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || limit < 1 {
		return Rate{}, fmt.Errorf("rate %q must have a positive count", s)
	}

	var window time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "second", "s":
		window = time.Second
	case "minute", "m":
		window = time.Minute
	case "hour", "h":
		window = time.Hour
	case "day", "d":
		window = 24 * time.Hour
	default:
		return Rate{}, fmt.Errorf("rate %q has unknown period", s)
	}

	return Rate{Limit: limit, Window: window}, nil
}

func (r Rate) String() string {
	switch r.Window {
	case time.Second:
		return fmt.Sprintf("%d/second", r.Limit)
	case time.Hour:
		return fmt.Sprintf("%d/hour", r.Limit)
	case 24 * time.Hour:
		return fmt.Sprintf("%d/day", r.Limit)
	default:
		return fmt.Sprintf("%d/minute", r.Limit)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (r *Rate) UnmarshalText(text []byte) error {
	parsed, err := ParseRate(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type RateLimitConfig struct {
	Enabled bool      `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Default Rate      `envconfig:"RATE_LIMIT_DEFAULT" default:"100/minute"`
	Weather Rate      `envconfig:"RATE_LIMIT_WEATHER" default:"30/minute"`
	Storage CacheType `envconfig:"RATE_LIMIT_STORAGE" default:"memory"`
}

type AdminConfig struct {
	APIKey string `envconfig:"ADMIN_API_KEY"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.EventLog.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	if c.UsesRedis() {
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UsesRedis reports whether any component is configured with the redis backend
func (c *Config) UsesRedis() bool {
	return c.Cache.Type == CacheTypeRedis ||
		c.Storage.Type == SnapshotStoreRedis ||
		(c.RateLimit.Enabled && c.RateLimit.Storage == CacheTypeRedis)
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	if s.ShutdownTimeoutSeconds < 1 {
		return errors.NewConfigurationError("SERVER_SHUTDOWN_TIMEOUT_SECONDS must be at least 1 second", nil)
	}
	return nil
}

func (w *WeatherConfig) Validate() error {
	if w.BaseURL == "" {
		return errors.NewConfigurationError("OPENWEATHERMAP_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return errors.NewConfigurationError("OPENWEATHERMAP_BASE_URL must start with http:// or https://", nil)
	}
	if w.FetchTimeoutSeconds < 1 || w.FetchTimeoutSeconds > maxFetchTimeout {
		return errors.NewConfigurationError("WEATHER_FETCH_TIMEOUT_SECONDS must be between 1 and 120 seconds", nil)
	}
	if w.CircuitBreakerEnabled {
		if w.CircuitBreakerMaxFailures < 1 {
			return errors.NewConfigurationError("WEATHER_CIRCUIT_BREAKER_MAX_FAILURES must be at least 1", nil)
		}
		if w.CircuitBreakerTimeoutSeconds < 1 {
			return errors.NewConfigurationError("WEATHER_CIRCUIT_BREAKER_TIMEOUT_SECONDS must be at least 1 second", nil)
		}
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: memory, redis", nil)
	}
	if c.TTLSeconds < 0 || c.TTLSeconds > maxCacheTTLSeconds {
		return errors.NewConfigurationError("CACHE_TTL_SECONDS must be between 0 and 86400 seconds", nil)
	}
	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when a redis backend is selected", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	if s.Type == SnapshotStoreUnknown {
		return errors.NewConfigurationError("SNAPSHOT_STORE must be one of: file, redis", nil)
	}
	if s.Type == SnapshotStoreFile && strings.TrimSpace(s.DataDir) == "" {
		return errors.NewConfigurationError("DATA_DIR cannot be empty when SNAPSHOT_STORE is file", nil)
	}
	return nil
}

func (e *EventLogConfig) Validate() error {
	switch e.Driver {
	case EventLogDriverSQLite:
		if e.SQLitePath == "" && strings.TrimSpace(e.LogsDir) == "" {
			return errors.NewConfigurationError("LOGS_DIR or EVENT_LOG_SQLITE_PATH must be set for the sqlite event log", nil)
		}
		return nil
	case EventLogDriverPostgres:
		return e.Database.Validate()
	default:
		return errors.NewConfigurationError("EVENT_LOG_DRIVER must be one of: sqlite, postgres", nil)
	}
}

func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	return d.ValidateSSLMode()
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (r *RateLimitConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if !r.Storage.IsValid() {
		return errors.NewConfigurationError("RATE_LIMIT_STORAGE must be one of: memory, redis", nil)
	}
	if r.Default.Limit < 1 || r.Weather.Limit < 1 {
		return errors.NewConfigurationError("RATE_LIMIT_DEFAULT and RATE_LIMIT_WEATHER must be positive rates", nil)
	}
	return nil
}
