package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	*sql.DB
	url string
}

func Connect(url string) (*DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	// defaults; allow caller to tune via ConfigurePool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &DB{DB: db, url: url}, nil
}

func (d *DB) Ping(ctx context.Context) error { return d.DB.PingContext(ctx) }

// Migrate applies the embedded schema migrations on a dedicated connection so
// closing the migrator never touches the serving pool.
func (d *DB) Migrate(ctx context.Context) error {
	if d.url == "" {
		return errors.New("migrate requires a connection url")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	conn, err := sql.Open("pgx", d.url)
	if err != nil {
		return err
	}
	drv, err := pgxmigrate.WithInstance(conn, &pgxmigrate.Config{})
	if err != nil {
		_ = conn.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		_ = drv.Close()
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (d *DB) ConfigurePool(maxOpen, maxIdle, maxLifeSeconds int) {
	if maxOpen > 0 {
		d.DB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle >= 0 {
		d.DB.SetMaxIdleConns(maxIdle)
	}
	if maxLifeSeconds > 0 {
		d.DB.SetConnMaxLifetime(time.Duration(maxLifeSeconds) * time.Second)
	}
}
