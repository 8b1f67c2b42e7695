// Package postgres implements the specification, validation, schema and
// usage ports on top of a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/oracle-plus/internal/core/ports"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Config struct {
	URL            string        `mapstructure:"url" validate:"required"`
	MaxConns       int32         `mapstructure:"max_conns" validate:"min=0,max=64"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Schema         string        `mapstructure:"schema"`
	TenantID       string        `mapstructure:"tenant_id" validate:"omitempty,uuid"`
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, logger ports.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, apperrors.WrapUserFacing(err, apperrors.CodeConfigValidation, "invalid database URL",
			"Set SUPABASE_DB_URL (or database.url) to a postgres:// connection string.")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to create database pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.WrapUserFacing(err, apperrors.CodeStoreError, "database is unreachable",
			"Check the database URL and network access.")
	}
	logger.Debugf(ctx, "Connected to database %s (max_conns=%d)", poolCfg.ConnConfig.Database, poolCfg.MaxConns)
	return pool, nil
}

// Store implements every persistence port against one database.
type Store struct {
	db       DB
	schema   string
	tenantID *uuid.UUID
	logger   ports.Logger
}

func NewStore(db DB, cfg Config, logger ports.Logger) (*Store, error) {
	if db == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "database handle is required")
	}
	s := &Store{db: db, schema: cfg.Schema, logger: logger}
	if s.schema == "" {
		s.schema = "public"
	}
	if cfg.TenantID != "" {
		id, err := uuid.Parse(cfg.TenantID)
		if err != nil {
			return nil, apperrors.WrapUserFacing(err, apperrors.CodeConfigValidation, "invalid tenant id",
				"ORACLE_PLUS_TENANT_ID must be a UUID.")
		}
		s.tenantID = &id
	}
	return s, nil
}

func storeErr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Wrap(err, apperrors.CodeNotFound, msg)
	}
	return apperrors.Wrap(err, apperrors.CodeStoreError, msg)
}
