package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Leave    LeaveConfig
	Seed     SeedConfig
}

type HTTPConfig struct {
	Port         string        `env:"PORT" env-default:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:""`
	Name     string `env:"DB_NAME" env-default:"leavedesk"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type KafkaConfig struct {
	Broker       string        `env:"KAFKA_BROKER" env-default:""`
	PollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" env-default:"3s"`
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`
}

// LeaveConfig carries the business policy knobs for the leave core.
type LeaveConfig struct {
	// MaxConcurrentLeaves caps how many employees may hold approved,
	// date-overlapping leave at the same time.
	MaxConcurrentLeaves int `env:"LEAVE_MAX_CONCURRENT" env-default:"2"`
	// CancelLeadDays is the minimum number of full days before the start
	// date required for an approved request to still be cancellable.
	CancelLeadDays int `env:"LEAVE_CANCEL_LEAD_DAYS" env-default:"7"`
	// DefaultAnnualDays is the allowance granted to a freshly registered
	// employee for the current year.
	DefaultAnnualDays int `env:"LEAVE_DEFAULT_ANNUAL_DAYS" env-default:"26"`
}

// SeedConfig describes the administrator account created on first start
// when the users table holds no admin.
type SeedConfig struct {
	AdminEmail     string `env:"SEED_ADMIN_EMAIL" env-default:"admin@leavedesk.local"`
	AdminPassword  string `env:"SEED_ADMIN_PASSWORD" env-default:""`
	AdminFirstName string `env:"SEED_ADMIN_FIRST_NAME" env-default:"System"`
	AdminLastName  string `env:"SEED_ADMIN_LAST_NAME" env-default:"Administrator"`
}

// Load reads configuration from the environment. godotenv is expected to have
// populated the process env already (done in the cmd mains).
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
