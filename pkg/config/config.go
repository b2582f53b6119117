package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Trust     TrustConfig     `mapstructure:"trust"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
	Rooms     RoomsConfig     `mapstructure:"rooms"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Transport TransportConfig `mapstructure:"transport"`
	Bedrock   BedrockConfig   `mapstructure:"bedrock"`
	Providers ProvidersConfig `mapstructure:"-"`
}

type ServerConfig struct {
	AdminPort   int    `mapstructure:"admin_port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	SecretKey   string `mapstructure:"secret_key"`
	// AuthDisabled turns off bearer token checks on the admin API.
	AuthDisabled bool `mapstructure:"auth_disabled"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableProcess bool `mapstructure:"enable_process"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"name"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type GatewayConfig struct {
	DefaultTimeout   time.Duration       `mapstructure:"default_timeout"`
	FailureThreshold uint32              `mapstructure:"failure_threshold"`
	FailureWindow    time.Duration       `mapstructure:"failure_window"`
	Cooldown         time.Duration       `mapstructure:"cooldown"`
	MaxProviders     int                 `mapstructure:"max_providers"`
	Priorities       map[string][]string `mapstructure:"priorities"`
}

type PipelineConfig struct {
	DefaultAnalysisType string `mapstructure:"default_analysis_type"`
	MaxProviders        int    `mapstructure:"max_providers"`
	RequireConsensus    bool   `mapstructure:"require_consensus"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type TrustConfig struct {
	Cache             string        `mapstructure:"cache"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	CacheCapacity     int           `mapstructure:"cache_capacity"`
	Staleness         time.Duration `mapstructure:"staleness"`
	ActivityThreshold int64         `mapstructure:"activity_threshold"`
	ActivityRetention time.Duration `mapstructure:"activity_retention"`
}

type RateLimitConfig struct {
	Backend string `mapstructure:"backend"`
}

type ExecutorConfig struct {
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

type RoomsConfig struct {
	CacheTTL time.Duration    `mapstructure:"cache_ttl"`
	Default  RoomPolicyConfig `mapstructure:"default"`
}

type RoomPolicyConfig struct {
	ModerationLevel   string   `mapstructure:"moderation_level"`
	TrustThreshold    float64  `mapstructure:"trust_threshold"`
	AllowedActions    []string `mapstructure:"allowed_actions"`
	MessagesPerMinute int      `mapstructure:"messages_per_minute"`
	EscalationTarget  string   `mapstructure:"escalation_target"`
}

type AuditConfig struct {
	Log      bool                   `mapstructure:"log"`
	Postgres bool                   `mapstructure:"postgres"`
	Kafka    map[string]interface{} `mapstructure:"kafka"`
}

type NotifierConfig struct {
	SlackWebhookURL string `mapstructure:"slack_webhook_url"`
	// ViaTransport also relays escalations through the chat transport's Notify.
	ViaTransport bool `mapstructure:"via_transport"`
}

const (
	TransportWebhook   = "webhook"
	TransportWebsocket = "websocket"
)

type TransportConfig struct {
	Type       string `mapstructure:"type"`
	WebhookURL string `mapstructure:"webhook_url"`
	Token      string `mapstructure:"token"`
	MaxBridges int    `mapstructure:"max_bridges"`
}

// BedrockConfig holds the AWS settings shared by every bedrock_guardrail provider. Static
// credentials are optional; the default AWS chain is used without them.
type BedrockConfig struct {
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SessionToken string `mapstructure:"session_token"`
	RoleARN      string `mapstructure:"role_arn"`
	SessionName  string `mapstructure:"session_name"`
}

var globalConfig Config

// Load reads config.yaml and providers.yaml from configPath. Environment variables override
// file values with dots replaced by underscores, e.g. REDIS_HOST.
func Load(configPath string) error {
	cfg, err := Read(configPath)
	if err != nil {
		return err
	}
	globalConfig = *cfg
	return nil
}

// Read is Load without touching the global configuration.
func Read(configPath string) (*Config, error) {
	var cfg Config
	if err := loadConfigFile(configPath, "config", &cfg, setDefaultValues); err != nil {
		return nil, fmt.Errorf("could not load main config file: %w", err)
	}

	var providers ProvidersConfig
	if err := loadConfigFile(configPath, "providers", &providers, nil); err != nil {
		return nil, fmt.Errorf("could not load providers config file: %w", err)
	}
	if err := providers.Validate(); err != nil {
		return nil, err
	}
	cfg.Providers = providers
	return &cfg, nil
}

func loadConfigFile(configPath, fileName string, out interface{}, defaults func(v *viper.Viper)) error {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if defaults != nil {
		defaults(v)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
		if defaults == nil {
			return fmt.Errorf("config file %s.yaml not found", fileName)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}
	return nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.admin_port", 8080)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("metrics.enabled", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("gateway.default_timeout", "10s")
	v.SetDefault("gateway.failure_threshold", 5)
	v.SetDefault("gateway.failure_window", "5m")
	v.SetDefault("gateway.cooldown", "5m")
	v.SetDefault("gateway.max_providers", 3)

	v.SetDefault("pipeline.default_analysis_type", "general")
	v.SetDefault("pipeline.max_providers", 3)

	v.SetDefault("trust.cache", BackendMemory)
	v.SetDefault("trust.cache_ttl", "24h")
	v.SetDefault("trust.cache_capacity", 10000)
	v.SetDefault("trust.staleness", "24h")
	v.SetDefault("trust.activity_threshold", 10)
	v.SetDefault("trust.activity_retention", "720h")

	v.SetDefault("ratelimit.backend", BackendMemory)
	v.SetDefault("executor.retry_interval", "200ms")

	v.SetDefault("rooms.cache_ttl", "5m")
	v.SetDefault("rooms.default.moderation_level", "moderate")
	v.SetDefault("rooms.default.trust_threshold", 0.3)
	v.SetDefault("rooms.default.allowed_actions", []string{"WARN", "MUTE", "KICK", "BAN", "REDACT"})
	v.SetDefault("rooms.default.messages_per_minute", 10)

	v.SetDefault("audit.log", true)
	v.SetDefault("audit.postgres", true)

	v.SetDefault("transport.type", TransportWebsocket)
	v.SetDefault("transport.max_bridges", 64)
	v.SetDefault("bedrock.region", "us-east-1")
}

func GetConfig() *Config {
	return &globalConfig
}
