package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/labcore/backend/internal/infrastructure/config"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is an open GORM handle plus the pool beneath it
type Database struct {
	DB     *gorm.DB
	Driver string
	pool   *sql.DB
}

// NewDatabase opens cfg with query logging off
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return open(cfg, gormlogger.Discard)
}

// NewDatabaseWithLogger opens cfg and logs statements through log at level
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, log *zap.Logger, level gormlogger.LogLevel) (*Database, error) {
	return open(cfg, logger.NewSQLLogger(log, level, cfg.SlowQuery))
}

func open(cfg *config.DatabaseConfig, sqlLog gormlogger.Interface) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 sqlLog,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != config.DriverSQLite,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database pool: %w", err)
	}
	configurePool(pool, cfg)

	d := &Database{DB: db, Driver: cfg.Driver, pool: pool}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Ping(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return d, nil
}

// configurePool applies the pool limits. SQLite gets a single connection:
// it allows one writer, and a second connection inside a transaction would
// wait on the first.
func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == config.DriverSQLite {
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// SQLiteDSN is the connection string for a sqlite file with foreign keys on
// and a five second busy timeout
func SQLiteDSN(path string) string {
	return "file:" + path + "?_busy_timeout=5000&_foreign_keys=on"
}

func (d *Database) Close() error { return d.pool.Close() }

// Ping satisfies the health checker used by the system endpoints
func (d *Database) Ping(ctx context.Context) error { return d.pool.PingContext(ctx) }

// Stats reports the connection pool counters
func (d *Database) Stats() sql.DBStats { return d.pool.Stats() }
