// filepath: internal/db/gateway.go

// Package db resolves the PostgreSQL connection configuration and owns the
// shared connection pool. Malformed configuration must fail fast and loudly
// rather than silently connect with wrong credentials.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"hkids/internal/logging"
)

// ErrMissingPassword is returned when no non-empty database password could be
// resolved from the environment. The gateway refuses to construct a pool in
// that case; it never attempts a connection with an empty credential.
var ErrMissingPassword = errors.New("database configuration error: no database password set (set DB_PASSWORD or include one in DATABASE_URL)")

// Defaults used by the discrete-variable resolver.
const (
	defaultHost     = "localhost"
	defaultPort     = "5432"
	defaultUser     = "postgres"
	defaultDatabase = "hkids"
)

// A resolver produces a candidate DSN from the environment. Resolvers are
// evaluated in priority order; the first one that yields a candidate wins.
type resolver interface {
	resolve(getenv func(string) string) (dsn string, ok bool)
}

// connStringResolver accepts DATABASE_URL verbatim, but only when it is a
// well-formed postgres URL carrying a non-empty username and password. A URL
// with an empty password is rejected here so that resolution falls through to
// the discrete variables: the connection-string form cannot reliably express
// "no password" in the driver.
type connStringResolver struct{}

func (connStringResolver) resolve(getenv func(string) string) (string, bool) {
	raw := strings.TrimSpace(getenv("DATABASE_URL"))
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		logging.Log.Warnf("db: ignoring malformed DATABASE_URL: %v", err)
		return "", false
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		logging.Log.Warnf("db: ignoring DATABASE_URL with scheme %q", u.Scheme)
		return "", false
	}
	if u.User == nil || u.User.Username() == "" {
		logging.Log.Warn("db: ignoring DATABASE_URL without a username")
		return "", false
	}
	password, _ := u.User.Password()
	if strings.TrimSpace(password) == "" {
		logging.Log.Warn("db: DATABASE_URL has an empty password, falling back to discrete DB_* variables")
		return "", false
	}
	return raw, true
}

// discreteResolver builds a DSN from DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/
// DB_NAME with hard-coded defaults. It always yields a candidate; the
// password check happens after resolution.
type discreteResolver struct{}

func (discreteResolver) resolve(getenv func(string) string) (string, bool) {
	host := getenv("DB_HOST")
	if host == "" {
		host = defaultHost
	}
	port := getenv("DB_PORT")
	if _, err := strconv.Atoi(port); err != nil {
		port = defaultPort
	}
	user := getenv("DB_USER")
	if user == "" {
		user = defaultUser
	}
	dbname := getenv("DB_NAME")
	if dbname == "" {
		dbname = defaultDatabase
	}
	password := getenv("DB_PASSWORD")

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   fmt.Sprintf("%s:%s", host, port),
		Path:   "/" + dbname,
	}
	return u.String(), true
}

// resolvers in priority order, first valid wins.
var resolvers = []resolver{
	connStringResolver{},
	discreteResolver{},
}

// ResolveDSN resolves one authoritative connection string from the
// environment. getenv is injected so resolution can be tested without
// touching the process environment.
func ResolveDSN(getenv func(string) string) (string, error) {
	for _, r := range resolvers {
		dsn, ok := r.resolve(getenv)
		if !ok {
			continue
		}
		if err := checkPassword(dsn); err != nil {
			return "", err
		}
		return dsn, nil
	}
	return "", ErrMissingPassword
}

// checkPassword enforces the fail-fast rule: whatever won resolution must
// carry a non-empty, non-whitespace password.
func checkPassword(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return fmt.Errorf("database configuration error: %w", err)
	}
	password, _ := u.User.Password()
	if strings.TrimSpace(password) == "" {
		return ErrMissingPassword
	}
	return nil
}

// Gateway holds the shared *sql.DB pool, or the configuration error that
// prevented one from being constructed.
type Gateway struct {
	db  *sql.DB
	err error
}

// Open resolves the connection configuration and constructs the pool. When
// resolution fails the returned Gateway is still usable: every DB() call
// reports the stored configuration error instead of dialing anything.
func Open(getenv func(string) string) *Gateway {
	dsn, err := ResolveDSN(getenv)
	if err != nil {
		logging.Log.Errorf("db: %v", err)
		return &Gateway{err: err}
	}

	// sql.Open validates the DSN but does not dial; the first query does.
	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return &Gateway{err: fmt.Errorf("database configuration error: %w", err)}
	}
	return &Gateway{db: pool}
}

// DB returns the shared pool, or the configuration error recorded at Open.
func (g *Gateway) DB() (*sql.DB, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.db, nil
}

// Ping verifies connectivity and classifies failures into a human-readable
// diagnostic.
func (g *Gateway) Ping(ctx context.Context) error {
	if g.err != nil {
		return g.err
	}
	if err := g.db.PingContext(ctx); err != nil {
		return Classify(err)
	}
	return nil
}

// Close releases the pool if one was constructed.
func (g *Gateway) Close() error {
	if g.db == nil {
		return nil
	}
	return g.db.Close()
}
