package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds every setting of the service. Values come from the environment, which
// may be seeded from a .env file.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"prod" validate:"oneof=local dev prod"`
	HTTPPort string `env:"HTTP_PORT" env-default:"8080" validate:"required,numeric"`

	DBHost     string `env:"DB_HOST" env-default:"localhost" validate:"required"`
	DBPort     string `env:"DB_PORT" env-default:"5432" validate:"required,numeric"`
	DBUser     string `env:"DB_USER" validate:"required"`
	DBPassword string `env:"DB_PASSWORD" validate:"required"`
	DBName     string `env:"DB_NAME" validate:"required"`
	DBSslMode  string `env:"DB_SSLMODE" env-default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	AuthSecret string `env:"AUTH_JWT_SECRET" validate:"required,min=32"`
	AuthIssuer string `env:"AUTH_JWT_ISSUER"`

	PickupTokenSecret string        `env:"PICKUP_TOKEN_SECRET" validate:"required,min=32"`
	PickupTokenIssuer string        `env:"PICKUP_TOKEN_ISSUER" env-default:"pickup" validate:"required"`
	PickupTokenTTL    time.Duration `env:"PICKUP_TOKEN_TTL" env-default:"0s" validate:"gte=0"`

	KafkaBrokers     []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaClientID    string   `env:"KAFKA_CLIENT_ID" env-default:"pickup"`
	KafkaTopicPrefix string   `env:"KAFKA_TOPIC_PREFIX" env-default:"pickup."`

	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" env-default:"10s" validate:"gt=0"`

	PickupReminderSchedule string        `env:"PICKUP_REMINDER_SCHEDULE" env-default:"0 * * * *" validate:"required"`
	PickupReminderAfter    time.Duration `env:"PICKUP_REMINDER_AFTER" env-default:"24h" validate:"gt=0"`
	PickupReminderLimit    int           `env:"PICKUP_REMINDER_LIMIT" env-default:"100" validate:"gt=0,lte=10000"`
}

// LoadConfig reads the optional .env files and then the environment. Variables already
// set in the environment win over .env values.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the field constraints of cfg.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// KafkaEnabled reports whether status notifications go to Kafka.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
