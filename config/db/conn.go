package db

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rountana/page1/logger"
)

var DB *pgxpool.Pool

const bookingsSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	hotel_id TEXT NOT NULL,
	hotel_name TEXT NOT NULL,
	check_in DATE NOT NULL,
	check_out DATE NOT NULL,
	travelers INT NOT NULL,
	room_type TEXT,
	guest_first_name TEXT NOT NULL,
	guest_last_name TEXT NOT NULL,
	guest_email TEXT NOT NULL,
	guest_phone TEXT,
	total_price NUMERIC(12,2) NOT NULL,
	currency TEXT NOT NULL DEFAULT 'USD',
	status TEXT NOT NULL,
	transaction_id TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// Connect opens the shared pgx pool and makes sure the bookings table
// exists. Exits on a bad DSN since nothing works without the store.
func Connect() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.ErrorLogger.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.ErrorLogger.Errorf("Unable to parse DATABASE_URL: %v", err)
		os.Exit(1)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Errorf("Database connection error: %v", err)
		os.Exit(1)
	}

	start := time.Now()
	if err := pool.Ping(ctx); err != nil {
		logger.WarnLogger.Warnf("Database cold start or unreachable: %v", err)
	} else {
		logger.InfoLogger.Infof("Database ready (ping ok in %v)", time.Since(start))
	}

	if _, err := pool.Exec(ctx, bookingsSchema); err != nil {
		logger.ErrorLogger.Errorf("Failed to ensure bookings schema: %v", err)
		os.Exit(1)
	}

	DB = pool
	logger.InfoLogger.Info("Connected to PostgreSQL pool.")
}

func Close() {
	if DB != nil {
		DB.Close()
		logger.InfoLogger.Info("Disconnected from PostgreSQL.")
	}
}
