// Package postgres implements the repository ports on PostgreSQL through
// database/sql and the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	defaultTimeout = 10 * time.Second

	pgErrUniqueViolation = "23505"
)

// Config captures the settings for establishing a PostgreSQL connection pool.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a pool and verifies connectivity with a ping. A default
// timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

var schema = []string{
	`create table if not exists users (
		id                bigserial primary key,
		email             text not null,
		password          text not null,
		firstname         text not null default '',
		lastname          text not null default '',
		birthday_date     date,
		address           text not null default '',
		postal_code       text not null default '',
		age               integer not null default 0,
		meta              jsonb not null default '{}'::jsonb,
		registration_date date not null,
		token             text not null,
		role              text not null default 'user' check (role in ('user', 'manager', 'admin'))
	)`,
	`create unique index if not exists users_email_lower_idx on users (lower(email))`,
	`create table if not exists departments (
		id   bigserial primary key,
		name text not null
	)`,
	`create table if not exists user_department (
		id            bigserial primary key,
		user_id       bigint not null references users(id) on delete cascade,
		department_id bigint not null references departments(id) on delete cascade,
		unique (user_id, department_id)
	)`,
	`create table if not exists requests_rh (
		id                bigserial primary key,
		user_id           bigint not null,
		content           text not null,
		registration_date date not null,
		visibility        boolean not null default true,
		close             boolean not null default false,
		last_action       date not null,
		content_history   jsonb not null default '[]'::jsonb,
		delete_date       date
	)`,
}

// EnsureSchema creates the tables and indexes the stores rely on. It is
// idempotent and safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
