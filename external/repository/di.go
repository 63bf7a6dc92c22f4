package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Carbonhell/SmartDisplay/external/awsclient"
	"github.com/Carbonhell/SmartDisplay/internal/config"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.EventRepository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		switch cfg.EventStoreBackend {
		case config.EventStorePostgres:
			return newPostgres(cfg)
		default:
			awsCfg := do.MustInvoke[aws.Config](i)
			client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
				o.BaseEndpoint = awsclient.BaseEndpoint(cfg)
			})
			return NewDynamoDBRepository(client, cfg.DynamoDBTable), nil
		}
	})
}

func newPostgres(cfg *config.Config) (repository.EventRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
	defer cancel()

	p, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigration(ctx, p); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return NewPostgresRepository(p), nil
}
