package repository

import (
	"context"

	"github.com/Carbonhell/SmartDisplay/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) PutEvent(ctx context.Context, event repository.Event) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO events (id, title, description, datetime, timestamp, building, room)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.Title, event.Description, event.Datetime, event.Timestamp, event.Building, event.Room)
	return err
}

func (r *PostgresRepository) ScanEvents(ctx context.Context) ([]repository.Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, datetime, timestamp, building, room FROM events`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.Event, error) {
		var e repository.Event
		err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Datetime, &e.Timestamp, &e.Building, &e.Room)
		return e, err
	})
}
