package trace

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store records and replays debugger runs. A single gorm-backed
// implementation serves both a local SQLite file and a remote
// libSQL/Turso database, so internal/trace never branches on which
// backend is active; Open picks the dialector from the DSN's shape,
// exactly as the teacher's db.Connect does for its own schema.
type Store interface {
	CreateRun(id, source string) error
	RecordStep(s Step) error
	FinishRun(id string, exitCode int, runErr error) error
	ListSteps(runID string) ([]Step, error)
	Close() error
}

type gormStore struct {
	db *gorm.DB
}

// Open connects to dsn and auto-migrates the trace schema. A DSN
// beginning with "libsql://", "http://" or "https://" is treated as a
// remote libSQL/Turso database; anything else is a local SQLite file
// path.
func Open(dsn string) (Store, error) {
	if isRemoteDSN(dsn) {
		return openLibSQL(dsn)
	}
	return openSQLite(dsn)
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "libsql://") ||
		strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://")
}

// openSQLite opens a Store backed by a local file (":memory:" is
// a valid dsn for tests, grounded on
// mcp/apply_handler_test.go's gorm.Open(sqlite.Open(":memory:"))).
func openSQLite(dsn string) (Store, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating trace db directory: %w", err)
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening trace db: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &Step{}); err != nil {
		return nil, fmt.Errorf("migrating trace db: %w", err)
	}
	return &gormStore{db: db}, nil
}

// openLibSQL opens a Store against a remote libSQL/Turso
// database, authenticating via PIE_TRACE_AUTH_TOKEN if set.
func openLibSQL(dsn string) (Store, error) {
	var (
		connector driver.Connector
		err       error
	)
	if token := os.Getenv("PIE_TRACE_AUTH_TOKEN"); token != "" {
		connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
	} else {
		connector, err = libsql.NewConnector(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("creating libsql connector: %w", err)
	}

	conn := sql.OpenDB(connector)
	dialector := sqlite.New(sqlite.Config{
		DriverName: "libsql",
		Conn:       conn,
		DSN:        dsn,
	})
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening remote trace db: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &Step{}); err != nil {
		return nil, fmt.Errorf("migrating remote trace db: %w", err)
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) CreateRun(id, source string) error {
	return s.db.Create(&Run{ID: id, Source: source, StartedAt: time.Now()}).Error
}

func (s *gormStore) RecordStep(step Step) error {
	return s.db.Create(&step).Error
}

func (s *gormStore) FinishRun(id string, exitCode int, runErr error) error {
	now := time.Now()
	updates := map[string]any{"finished_at": now, "exit_code": exitCode}
	if runErr != nil {
		updates["error"] = runErr.Error()
	}
	return s.db.Model(&Run{}).Where("id = ?", id).Updates(updates).Error
}

func (s *gormStore) ListSteps(runID string) ([]Step, error) {
	var steps []Step
	err := s.db.Where("run_id = ?", runID).Order("step_number asc").Find(&steps).Error
	return steps, err
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
