// Package sqlite implements the relational storage for agrorganica. The
// embedded backend runs on SQLite; the same statements run against
// PostgreSQL when configured with a DSN.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// DatabaseFile is the SQLite file created inside the data directory.
const DatabaseFile = "agrorganica.db"

// Backend owns the database connection and hands out typed table accessors.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	dialect  dialect
	log      *zap.Logger
	now      func() time.Time

	producers      *ProducersTable
	plots          *PlotsTable
	plantings      *PlantingsTable
	inputs         *InputRecordsTable
	certifications *CertificationsTable
	demands        *DemandsTable
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// WithClock replaces time.Now as the source of registration timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBackend creates a detached backend. Call Attach to open the database.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	b.producers = &ProducersTable{backend: b}
	b.plots = &PlotsTable{backend: b}
	b.plantings = &PlantingsTable{backend: b}
	b.inputs = &InputRecordsTable{backend: b}
	b.certifications = &CertificationsTable{backend: b}
	b.demands = &DemandsTable{backend: b}
	return b
}

// Attach opens the database described by config and creates any missing
// tables. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	var (
		db  *sql.DB
		d   dialect
		err error
	)
	switch config.Backend {
	case types.BackendPostgres:
		d = dialectPostgres
		db, err = openPostgres(config.DSN)
	default:
		d = dialectSQLite
		db, err = openSQLite(config.DataDir)
	}
	if err != nil {
		return err
	}

	if err := b.attachDBLocked(db, d); err != nil {
		db.Close()
		return err
	}
	b.config = config
	b.log.Info("database attached",
		zap.String("backend", d.String()),
		zap.String("data_dir", config.DataDir))
	return nil
}

// attachDBLocked bootstraps the schema on an open connection and marks the
// backend attached. The caller must hold b.mu.
func (b *Backend) attachDBLocked(db *sql.DB, d dialect) error {
	b.db = db
	b.dialect = d
	if err := b.bootstrap(); err != nil {
		b.db = nil
		return fmt.Errorf("bootstrapping schema: %w", err)
	}
	b.attached = true
	return nil
}

func openSQLite(dataDir string) (*sql.DB, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dsn := filepath.Join(dataDir, DatabaseFile) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One session, one connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	return db, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

// Detach closes the connection. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.log.Info("database detached")
	return nil
}

// conn returns the open connection or ErrDetached.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}

// rebind adapts a ?-placeholder query to the attached dialect.
func (b *Backend) rebind(query string) string {
	return b.dialect.rebind(query)
}

// Producers returns the producers accessor.
func (b *Backend) Producers() *ProducersTable { return b.producers }

// Plots returns the plots accessor.
func (b *Backend) Plots() *PlotsTable { return b.plots }

// Plantings returns the plantings accessor.
func (b *Backend) Plantings() *PlantingsTable { return b.plantings }

// InputRecords returns the input records accessor.
func (b *Backend) InputRecords() *InputRecordsTable { return b.inputs }

// Certifications returns the certification status accessor.
func (b *Backend) Certifications() *CertificationsTable { return b.certifications }

// Demands returns the demands accessor.
func (b *Backend) Demands() *DemandsTable { return b.demands }

// newID generates a random UUID for system-assigned identifiers. Version 4
// keeps the first eight characters distinct between records created in the
// same instant, which matters for the short ids shown to users.
func newID() string {
	return uuid.NewString()
}

// nullString maps "" to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullFloat maps a nil pointer to NULL.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// boolInt stores a flag as 0/1.
func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
