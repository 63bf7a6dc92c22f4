package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env string `env:"ENV" envDefault:"production"`

	ListenAddr           string `env:"LISTEN_ADDR" envDefault:":8080"`
	DiscordPublicKey     string `env:"DISCORD_PUBLIC_KEY"`
	DiscordBotToken      string `env:"DISCORD_BOT_TOKEN"`
	DiscordApplicationID string `env:"DISCORD_APPLICATION_ID"`
	DiscordGuildID       string `env:"DISCORD_GUILD_ID"`
	EventTimezone        string `env:"EVENT_TIMEZONE" envDefault:"UTC"`

	EventStoreBackend  string `env:"EVENT_STORE_BACKEND" envDefault:"dynamodb"`
	DynamoDBTable      string `env:"DYNAMODB_TABLE" envDefault:"active_events"`
	DatabaseURL        string `env:"DATABASE_URL"`
	AWSRegion          string `env:"AWS_REGION" envDefault:"eu-south-1"`
	AWSEndpointURL     string `env:"AWS_ENDPOINT_URL"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	IoTDataEndpoint         string `env:"IOT_DATA_ENDPOINT"`
	IoTCertFile             string `env:"IOT_CERT_FILE"`
	IoTKeyFile              string `env:"IOT_KEY_FILE"`
	IoTRootCAFile           string `env:"IOT_ROOT_CA_FILE"`
	PublishQoS              int    `env:"PUBLISH_QOS" envDefault:"1"`
	PublishRetain           bool   `env:"PUBLISH_RETAIN" envDefault:"true"`
	DistributionSchedule    string `env:"DISTRIBUTION_SCHEDULE" envDefault:"@every 5m"`
	DistributionConcurrency int    `env:"DISTRIBUTION_CONCURRENCY" envDefault:"1"`
	MetricsListenAddr       string `env:"METRICS_LISTEN_ADDR"`
}

// Load reads the environment (and a .env file outside production) for role.
func Load(role config.Role) (*config.Config, error) {
	if os.Getenv("ENV") != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			slog.Warn(".env file could not be loaded", "error", err)
		}
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &config.Config{
		Env:                     raw.Env,
		Role:                    role,
		ListenAddr:              raw.ListenAddr,
		DiscordPublicKey:        raw.DiscordPublicKey,
		DiscordBotToken:         raw.DiscordBotToken,
		DiscordApplicationID:    raw.DiscordApplicationID,
		DiscordGuildID:          raw.DiscordGuildID,
		EventTimezone:           raw.EventTimezone,
		EventStoreBackend:       raw.EventStoreBackend,
		DynamoDBTable:           raw.DynamoDBTable,
		DatabaseURL:             raw.DatabaseURL,
		AWSRegion:               raw.AWSRegion,
		AWSEndpointURL:          raw.AWSEndpointURL,
		AWSAccessKeyID:          raw.AWSAccessKeyID,
		AWSSecretAccessKey:      raw.AWSSecretAccessKey,
		IoTDataEndpoint:         raw.IoTDataEndpoint,
		IoTCertFile:             raw.IoTCertFile,
		IoTKeyFile:              raw.IoTKeyFile,
		IoTRootCAFile:           raw.IoTRootCAFile,
		PublishQoS:              raw.PublishQoS,
		PublishRetain:           raw.PublishRetain,
		DistributionSchedule:    raw.DistributionSchedule,
		DistributionConcurrency: raw.DistributionConcurrency,
		MetricsListenAddr:       raw.MetricsListenAddr,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
