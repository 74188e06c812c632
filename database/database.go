package database

import (
	"database/sql"
	"fmt"
	"time"

	"spgovern/logging"

	_ "modernc.org/sqlite"
)

// Config holds journal database configuration
type Config struct {
	Path            string        `env:"DB_PATH" default:"./spgovern.db"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	BusyTimeoutMs   int           `env:"DB_BUSY_TIMEOUT_MS" default:"5000"`
	EnableWAL       bool          `env:"DB_ENABLE_WAL" default:"true"`
}

// Database wraps the journal store's SQL connections. Reads go through a
// pooled connection; writes are serialized on a single connection so
// concurrent journal updates never contend inside SQLite.
type Database struct {
	readDB  *sql.DB
	writeDB *sql.DB
	config  Config
	logger  *logging.Logger
}

// New opens the journal database and brings its schema up to date.
func New(config Config, logger *logging.Logger) (*Database, error) {
	dsn := buildDSN(config)

	logger.Database("Opening journal database",
		"path", config.Path,
		"read_max_open_conns", config.MaxOpenConns,
		"write_max_open_conns", 1)

	readDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read database: %w", err)
	}
	readDB.SetMaxOpenConns(config.MaxOpenConns)
	readDB.SetMaxIdleConns(config.MaxIdleConns)
	readDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	writeDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		readDB.Close()
		return nil, fmt.Errorf("failed to open write database: %w", err)
	}
	// Single connection forces write serialization
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	writeDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	database := &Database{
		readDB:  readDB,
		writeDB: writeDB,
		config:  config,
		logger:  logger,
	}

	if err := database.initialize(); err != nil {
		readDB.Close()
		writeDB.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.runMigrations(); err != nil {
		readDB.Close()
		writeDB.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	logger.Database("Journal database initialized", "path", config.Path, "wal_mode", config.EnableWAL)
	return database, nil
}

// buildDSN constructs the SQLite Data Source Name
func buildDSN(config Config) string {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", config.Path, config.BusyTimeoutMs)
	if config.EnableWAL {
		dsn += "&_journal_mode=WAL"
	}
	dsn += "&_foreign_keys=on&_synchronous=normal"
	return dsn
}

// initialize verifies connectivity and applies per-connection pragmas
func (d *Database) initialize() error {
	connections := []*sql.DB{d.readDB, d.writeDB}
	connectionTypes := []string{"read", "write"}

	for i, conn := range connections {
		connType := connectionTypes[i]

		if err := conn.Ping(); err != nil {
			return fmt.Errorf("failed to ping %s database: %w", connType, err)
		}

		if _, err := conn.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", d.config.BusyTimeoutMs)); err != nil {
			return fmt.Errorf("failed to set busy_timeout on %s connection: %w", connType, err)
		}

		if d.config.EnableWAL {
			var journalMode string
			if err := conn.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode); err != nil {
				return fmt.Errorf("failed to enable WAL mode on %s connection: %w", connType, err)
			}
			if journalMode != "wal" {
				d.logger.Warn("WAL mode not enabled", "connection", connType, "journal_mode", journalMode)
			}
		}
	}
	return nil
}

// ReadDB returns the read connection pool
func (d *Database) ReadDB() *sql.DB {
	return d.readDB
}

// WriteDB returns the write-serialized connection
func (d *Database) WriteDB() *sql.DB {
	return d.writeDB
}

// Close closes both database connections
func (d *Database) Close() error {
	d.logger.Database("Closing journal database connections")

	if d.config.EnableWAL {
		if _, err := d.writeDB.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			d.logger.Warn("failed to checkpoint WAL", "error", err)
		}
	}

	var errs []error
	if err := d.readDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("read connection: %w", err))
	}
	if err := d.writeDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("write connection: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close connections: %v", errs)
	}
	return nil
}

// Health checks connectivity and returns pool statistics
func (d *Database) Health() (map[string]interface{}, error) {
	if err := d.readDB.Ping(); err != nil {
		return nil, fmt.Errorf("read database ping failed: %w", err)
	}
	if err := d.writeDB.Ping(); err != nil {
		return nil, fmt.Errorf("write database ping failed: %w", err)
	}

	readStats := d.readDB.Stats()
	return map[string]interface{}{
		"path":             d.config.Path,
		"open_connections": readStats.OpenConnections,
		"in_use":           readStats.InUse,
		"idle":             readStats.Idle,
	}, nil
}
