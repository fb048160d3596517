package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Mail      MailSettings      `mapstructure:"mail"`
	Notify    NotifySettings    `mapstructure:"notify"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name               string   `mapstructure:"name"`
	Env                string   `mapstructure:"env"`
	Host               string   `mapstructure:"host"`
	Port               int      `mapstructure:"port"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the optional dedupe ledger backend.
type RedisSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	DB         int    `mapstructure:"db"`
	Password   string `mapstructure:"password"`
	TLSEnabled bool   `mapstructure:"tls_enabled"`
}

// KafkaSettings configures the change feed consumer and the outcome producer.
type KafkaSettings struct {
	Brokers       []string      `mapstructure:"brokers"`
	TopicPrefix   string        `mapstructure:"topic_prefix"`
	ChangeTopic   string        `mapstructure:"change_topic"`
	GroupID       string        `mapstructure:"group_id"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// MailSettings configures the SendGrid transport.
type MailSettings struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

// NotifySettings carries the notification pipeline defaults that used to be
// implicit literals: the default role granted on profile creation, the
// application scope it is granted in, and the dedupe ledger policy.
type NotifySettings struct {
	DefaultRoleName string        `mapstructure:"default_role_name"`
	DefaultAppID    int64         `mapstructure:"default_app_id"`
	DedupeEnabled   bool          `mapstructure:"dedupe_enabled"`
	DedupePrefix    string        `mapstructure:"dedupe_prefix"`
	DedupeTTL       time.Duration `mapstructure:"dedupe_ttl"`
}

type TelemetrySettings struct {
	MetricsPort int `mapstructure:"metrics_port"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("EDU")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.cors_allowed_origins",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.change_topic",
		"kafka.group_id",
		"kafka.batch_size",
		"kafka.flush_interval",
		"mail.api_key",
		"mail.from_email",
		"mail.from_name",
		"notify.default_role_name",
		"notify.default_app_id",
		"notify.dedupe_enabled",
		"notify.dedupe_prefix",
		"notify.dedupe_ttl",
		"telemetry.metrics_port",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "edu-notify")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.cors_allowed_origins", []string{"*"})

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "edu")
	v.SetDefault("postgres.password", "edu_password")
	v.SetDefault("postgres.database", "edu_platform")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic_prefix", "edu")
	v.SetDefault("kafka.change_topic", "edu.video_requests.changes")
	v.SetDefault("kafka.group_id", "edu-notify-worker")
	v.SetDefault("kafka.batch_size", 50)
	v.SetDefault("kafka.flush_interval", "2s")

	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.from_email", "noreply@eduplatform.example")
	v.SetDefault("mail.from_name", "EduPlatform")

	v.SetDefault("notify.default_role_name", "Student")
	v.SetDefault("notify.default_app_id", 1)
	v.SetDefault("notify.dedupe_enabled", false)
	v.SetDefault("notify.dedupe_prefix", "edu:notified")
	v.SetDefault("notify.dedupe_ttl", "24h")

	v.SetDefault("telemetry.metrics_port", 9090)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "EDU_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
