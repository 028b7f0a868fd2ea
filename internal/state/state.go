// Package state persists small pieces of client state in a local SQLite
// database: a key-value table, the last playback snapshot and the Last.fm
// session.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/aura/internal/sched"
)

const (
	appName      = "aura"
	dbFileName   = "aura.db"
	saveDebounce = 500 * time.Millisecond
)

// Options configures Open. Zero values get defaults.
type Options struct {
	// Path of the database file; empty means the XDG data directory.
	// ":memory:" opens a private in-memory database.
	Path      string
	Scheduler sched.Scheduler
	Debounce  time.Duration
}

type Manager struct {
	db        *sql.DB
	sched     sched.Scheduler
	debounce  time.Duration
	saveMu    sync.Mutex
	saveTimer sched.Timer
	pending   *PlaybackSnapshot
}

func Open(opts Options) (*Manager, error) {
	dbPath := opts.Path
	if dbPath == "" {
		p, err := getDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	m := &Manager{
		db:       db,
		sched:    opts.Scheduler,
		debounce: opts.Debounce,
	}
	if m.sched == nil {
		m.sched = sched.New()
	}
	if m.debounce <= 0 {
		m.debounce = saveDebounce
	}
	return m, nil
}

// Close flushes a pending playback snapshot and closes the database.
func (m *Manager) Close() error {
	_ = m.FlushPlayback()
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
