package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plantfriend/internal/config"
)

func buildDSN(user, password, host, port, database string) string {
	// url.UserPassword encodes special characters in credentials
	userInfo := url.UserPassword(user, password)
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		userInfo.String(),
		host,
		port,
		url.PathEscape(database),
	)
}

// EnsureDatabaseExists creates the configured database through the
// maintenance database when it is missing.
func EnsureDatabaseExists(ctx context.Context, cfg *config.Config) error {
	adminUser, adminPassword := cfg.AdminCredentials()
	dsn := buildDSN(adminUser, adminPassword, cfg.DBHost, cfg.DBPort, "postgres")

	log.Printf("Checking if database '%s' exists...", cfg.DBName)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := pool.QueryRow(ctx, query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		log.Printf("Database '%s' already exists", cfg.DBName)
		return nil
	}

	log.Printf("Database '%s' does not exist. Creating it...", cfg.DBName)
	// CREATE DATABASE cannot take a bound parameter or run in a transaction
	createQuery := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{cfg.DBName}.Sanitize())
	if _, err := pool.Exec(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	log.Printf("Database '%s' created successfully", cfg.DBName)
	return nil
}

// Connect opens the shared pool used for introspection and row access.
func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	log.Printf("Connecting to database: postgres://%s:***@%s:%s/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)
	return ConnectDSN(ctx, buildDSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName), cfg.DBSchema)
}

func ConnectDSN(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	if schema != "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = schema
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection pool established successfully")
	return pool, nil
}

// OpenGorm wraps the pgx pool for the gorm-backed repositories so both
// share the same connections.
func OpenGorm(pool *pgxpool.Pool) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return db, nil
}
