package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type Role string

const (
	RoleGateway     Role = "gateway"
	RoleDistributor Role = "distributor"
)

const (
	EventStoreDynamoDB = "dynamodb"
	EventStorePostgres = "postgres"
)

type Config struct {
	Env  string
	Role Role

	ListenAddr           string
	DiscordPublicKey     string
	DiscordBotToken      string
	DiscordApplicationID string
	DiscordGuildID       string
	EventTimezone        string

	EventStoreBackend  string
	DynamoDBTable      string
	DatabaseURL        string
	AWSRegion          string
	AWSEndpointURL     string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	IoTDataEndpoint         string
	IoTCertFile             string
	IoTKeyFile              string
	IoTRootCAFile           string
	PublishQoS              int
	PublishRetain           bool
	DistributionSchedule    string
	DistributionConcurrency int
	MetricsListenAddr       string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.EventStoreBackend {
	case EventStoreDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required when EVENT_STORE_BACKEND=dynamodb")
		}
	case EventStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when EVENT_STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("EVENT_STORE_BACKEND must be %q or %q, got %q", EventStoreDynamoDB, EventStorePostgres, c.EventStoreBackend)
	}
	if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
		return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
	}

	switch c.Role {
	case RoleGateway:
		return c.validateGateway()
	case RoleDistributor:
		return c.validateDistributor()
	default:
		return fmt.Errorf("unknown role %q", c.Role)
	}
}

func (c *Config) validateGateway() error {
	key, err := hex.DecodeString(c.DiscordPublicKey)
	if err != nil {
		return fmt.Errorf("DISCORD_PUBLIC_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("DISCORD_PUBLIC_KEY must be 32 bytes, got %d", len(key))
	}
	if c.DiscordBotToken != "" && (c.DiscordApplicationID == "" || c.DiscordGuildID == "") {
		return fmt.Errorf("DISCORD_APPLICATION_ID and DISCORD_GUILD_ID are required when DISCORD_BOT_TOKEN is set")
	}
	if _, err := time.LoadLocation(c.EventTimezone); err != nil {
		return fmt.Errorf("EVENT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateDistributor() error {
	if (c.IoTCertFile == "") != (c.IoTKeyFile == "") {
		return fmt.Errorf("IOT_CERT_FILE and IOT_KEY_FILE must be set together")
	}
	if c.PublishQoS != 0 && c.PublishQoS != 1 {
		return fmt.Errorf("PUBLISH_QOS must be 0 or 1, got %d", c.PublishQoS)
	}
	if c.DistributionConcurrency <= 0 {
		return fmt.Errorf("DISTRIBUTION_CONCURRENCY must be positive, got %d", c.DistributionConcurrency)
	}
	if _, err := cron.ParseStandard(c.DistributionSchedule); err != nil {
		return fmt.Errorf("DISTRIBUTION_SCHEDULE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	fields := []requiredEnvField{
		{name: "EVENT_STORE_BACKEND", value: c.EventStoreBackend},
		{name: "AWS_REGION", value: c.AWSRegion},
	}
	switch c.Role {
	case RoleGateway:
		fields = append(fields,
			requiredEnvField{name: "LISTEN_ADDR", value: c.ListenAddr},
			requiredEnvField{name: "DISCORD_PUBLIC_KEY", value: c.DiscordPublicKey},
			requiredEnvField{name: "EVENT_TIMEZONE", value: c.EventTimezone},
		)
	case RoleDistributor:
		fields = append(fields,
			requiredEnvField{name: "IOT_DATA_ENDPOINT", value: c.IoTDataEndpoint},
			requiredEnvField{name: "DISTRIBUTION_SCHEDULE", value: c.DistributionSchedule},
		)
	}
	return fields
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// EventLocation returns the zone modal datetimes are interpreted in.
func (c *Config) EventLocation() *time.Location {
	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) RegistersSlashCommands() bool {
	return c.DiscordBotToken != ""
}
