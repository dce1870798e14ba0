package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookmart/internal/log"
)

//go:embed schema.sql
var schemaSQL string

var DB *pgxpool.Pool

func NewPool(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Info("database connected")

	return pool, nil
}

// Migrate applies the embedded schema. Every statement is IF NOT EXISTS so
// running it on an already-migrated database is a no-op.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Info("database schema applied")
	return nil
}

func ClosePool() {
	if DB != nil {
		DB.Close()
		log.Info("database disconnected")
	}
}
