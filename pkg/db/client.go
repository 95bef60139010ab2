package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Client owns the process-wide store connection. Repositories borrow its
// handle; nothing else opens connections.
type Client struct {
	conn   *gorm.DB
	driver string
}

// Pinger is the readiness probe surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New opens the configured store and applies the pool policy for its driver.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database DSN is required")
	}
	driver, dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newQueryLogger(logg, cfg.SlowQueryThreshold),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}

	client := &Client{conn: conn, driver: driver}
	sqlDB, err := client.SQLDB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	configurePool(sqlDB, driver, cfg)

	// SQLite leaves foreign keys off unless asked, per connection. The pool
	// holds exactly one connection so a single pragma covers it.
	if driver == config.DriverSQLite {
		if err := conn.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("enabling sqlite foreign keys: %w", err)
		}
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"driver":    driver,
		"in_memory": cfg.IsInMemory(),
	}), "db.connected")
	return client, nil
}

func openDialector(cfg config.DBConfig) (string, gorm.Dialector, error) {
	if cfg.IsSQLite() {
		return config.DriverSQLite, sqlite.Open(cfg.DSN), nil
	}
	if cfg.Driver != "" && cfg.Driver != config.DriverPostgres {
		return "", nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	return config.DriverPostgres, postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), nil
}

func configurePool(sqlDB *sql.DB, driver string, cfg config.DBConfig) {
	if driver == config.DriverSQLite {
		// An in-memory database dies with its last connection and SQLite
		// serializes writers anyway: pin one connection that never expires.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// DB returns the gorm handle. Callers inside WithTx must use the tx instead.
func (c *Client) DB() *gorm.DB { return c.conn }

// Driver is either config.DriverSQLite or config.DriverPostgres.
func (c *Client) Driver() string { return c.driver }

func (c *Client) SQLDB() (*sql.DB, error) { return c.conn.DB() }

func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.SQLDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. A returned error or a panic rolls back;
// the panic is re-raised after the rollback.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
