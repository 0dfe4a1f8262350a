// filepath: internal/repository/repository.go

// Package repository implements persistence for all hkids entities on top of
// the shared PostgreSQL pool.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
	"github.com/pressly/goose/v3"

	hkidsdb "hkids/internal/db"
	"hkids/internal/db/migrations"
)

// Standard errors returned by the repository layer.
var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
	ErrDuplicate  = errors.New("duplicate")
)

// Repository provides database access for all entities.
type Repository struct {
	DB      *sql.DB
	Cache   *cache.Cache
	Builder squirrel.StatementBuilderType
}

// NewRepository creates a Repository on top of the gateway's pool. It fails
// when the gateway recorded a configuration error.
func NewRepository(gw *hkidsdb.Gateway) (*Repository, error) {
	pool, err := gw.DB()
	if err != nil {
		return nil, err
	}
	return &Repository{
		DB:      pool,
		Cache:   cache.New(5*time.Minute, 10*time.Minute),
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Close closes the underlying pool.
func (s *Repository) Close() error {
	return s.DB.Close()
}

// EnsureSchemaBootstrapped applies the embedded migrations. Failures are
// classified into a human-readable diagnostic before being returned.
func (s *Repository) EnsureSchemaBootstrapped() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.DB, "."); err != nil {
		return hkidsdb.Classify(err)
	}
	return nil
}

// BeginTx starts a transaction wrapped in our Tx helper type.
func (s *Repository) BeginTx() (*Tx, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}
