package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/Conte777/newsrelay/pkg/mapfn"
)

// Config holds all configuration for the relay service
type Config struct {
	Database DatabaseConfig
	Nostr    NostrConfig
	YouTube  YouTubeConfig
	Channels ChannelsConfig
	Poll     PollConfig
	Kafka    KafkaConfig
	S3       S3Config
	Logging  LoggingConfig
	Service  ServiceConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// NostrConfig holds relay and profile configuration
type NostrConfig struct {
	Relays         []string
	ConnectTimeout time.Duration
	StepTimeout    time.Duration
	ProfileAbout   string
	ProfileNIP05   string
	ProfileLUD16   string
	ProfileWebsite string
}

// YouTubeConfig holds upstream fetcher configuration
type YouTubeConfig struct {
	APIKey            string
	APIBaseURL        string
	FeedURLTemplate   string
	MaxResults        int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// ChannelsConfig holds the tracked channel set
type ChannelsConfig struct {
	Keys []string
}

// PollConfig holds polling configuration
type PollConfig struct {
	Schedule     string
	RunOnStart   bool
	CycleTimeout time.Duration
	Concurrency  int
}

// KafkaConfig holds Kafka configuration; an empty broker list disables notifications
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// S3Config holds avatar mirror configuration; an empty endpoint disables the mirror
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // console or json
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name            string
	Port            string
	ShutdownTimeout time.Duration
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config         *Config
	DatabaseConfig *DatabaseConfig
	NostrConfig    *NostrConfig
	YouTubeConfig  *YouTubeConfig
	ChannelsConfig *ChannelsConfig
	PollConfig     *PollConfig
	KafkaConfig    *KafkaConfig
	S3Config       *S3Config
	LoggingConfig  *LoggingConfig
	ServiceConfig  *ServiceConfig
}

// Out returns fx-compatible config result
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:         cfg,
		DatabaseConfig: &cfg.Database,
		NostrConfig:    &cfg.Nostr,
		YouTubeConfig:  &cfg.YouTube,
		ChannelsConfig: &cfg.Channels,
		PollConfig:     &cfg.Poll,
		KafkaConfig:    &cfg.Kafka,
		S3Config:       &cfg.S3,
		LoggingConfig:  &cfg.Logging,
		ServiceConfig:  &cfg.Service,
	}, nil
}

// channelsFile is the optional YAML file listing channels and relays
type channelsFile struct {
	Channels []string `yaml:"channels"`
	Relays   []string `yaml:"relays"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:         getEnv("DATABASE_HOST", "localhost"),
			Port:         getEnv("DATABASE_PORT", "5432"),
			User:         getEnv("DATABASE_USER", "relay_user"),
			Password:     getEnv("DATABASE_PASSWORD", "relay_pass"),
			DBName:       getEnv("DATABASE_NAME", "relay_db"),
			SSLMode:      getEnv("DATABASE_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Nostr: NostrConfig{
			Relays:         getEnvList("NOSTR_RELAYS"),
			ConnectTimeout: getEnvDuration("NOSTR_CONNECT_TIMEOUT", 10*time.Second),
			StepTimeout:    getEnvDuration("NOSTR_STEP_TIMEOUT", 15*time.Second),
			ProfileAbout:   getEnv("NOSTR_PROFILE_ABOUT", "Automated mirror of new uploads"),
			ProfileNIP05:   getEnv("NOSTR_PROFILE_NIP05", ""),
			ProfileLUD16:   getEnv("NOSTR_PROFILE_LUD16", ""),
			ProfileWebsite: getEnv("NOSTR_PROFILE_WEBSITE", ""),
		},
		YouTube: YouTubeConfig{
			APIKey:            getEnv("YOUTUBE_API_KEY", ""),
			APIBaseURL:        getEnv("YOUTUBE_API_BASE_URL", "https://www.googleapis.com/youtube/v3"),
			FeedURLTemplate:   getEnv("FEED_URL_TEMPLATE", "https://rsshub.app/youtube/channel/%s"),
			MaxResults:        getEnvInt("YOUTUBE_MAX_RESULTS", 5),
			RequestsPerSecond: getEnvFloat("YOUTUBE_REQUESTS_PER_SECOND", 5),
			Timeout:           getEnvDuration("YOUTUBE_TIMEOUT", 30*time.Second),
		},
		Channels: ChannelsConfig{
			Keys: getEnvList("CHANNELS"),
		},
		Poll: PollConfig{
			Schedule:     getEnv("POLL_SCHEDULE", "@every 10m"),
			RunOnStart:   getEnvBool("POLL_RUN_ON_START", true),
			CycleTimeout: getEnvDuration("POLL_CYCLE_TIMEOUT", 5*time.Minute),
			Concurrency:  getEnvInt("POLL_CONCURRENCY", 4),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC_PUBLISHED", "relay.item.published"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", "avatars"),
			UseSSL:    getEnvBool("S3_USE_SSL", false),
			Region:    getEnv("S3_REGION", ""),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Service: ServiceConfig{
			Name:            getEnv("SERVICE_NAME", "relay-service"),
			Port:            getEnv("SERVICE_PORT", "8085"),
			ShutdownTimeout: getEnvDuration("SERVICE_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	if path := os.Getenv("CHANNELS_FILE"); path != "" {
		if err := cfg.mergeChannelsFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeChannelsFile appends channels and relays listed in a YAML file
func (c *Config) mergeChannelsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read channels file: %w", err)
	}

	var file channelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse channels file: %w", err)
	}

	c.Channels.Keys = mapfn.UniqueStrings(c.Channels.Keys, mapfn.ConvertSlice(file.Channels, strings.TrimSpace))
	c.Nostr.Relays = mapfn.UniqueStrings(c.Nostr.Relays, mapfn.ConvertSlice(file.Relays, strings.TrimSpace))
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if len(c.Channels.Keys) == 0 {
		return fmt.Errorf("CHANNELS is required")
	}

	if len(c.Nostr.Relays) == 0 {
		return fmt.Errorf("NOSTR_RELAYS is required")
	}

	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}

	if c.Nostr.ConnectTimeout <= 0 || c.Nostr.StepTimeout <= 0 {
		return fmt.Errorf("NOSTR_CONNECT_TIMEOUT and NOSTR_STEP_TIMEOUT must be positive")
	}

	if c.Poll.CycleTimeout <= 0 {
		return fmt.Errorf("POLL_CYCLE_TIMEOUT must be positive")
	}

	if c.Poll.Concurrency < 1 {
		return fmt.Errorf("POLL_CONCURRENCY must be at least 1")
	}

	if _, err := cron.ParseStandard(c.Poll.Schedule); err != nil {
		return fmt.Errorf("invalid POLL_SCHEDULE: %w", err)
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetURL returns database URL for golang-migrate
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether publish notifications are configured
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Enabled reports whether the avatar mirror is configured
func (c *S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated environment variable, dropping blanks
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	return mapfn.UniqueStrings(mapfn.ConvertSlice(strings.Split(value, ","), strings.TrimSpace))
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
