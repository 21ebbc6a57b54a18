package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/tsukuyomi/internal/model"
)

// HitDB provides SQLite-based storage for the trap hit log.
// It manages connection pooling and an asynchronous write queue.
//
// Design decision: We use a single database file per trap instance rather
// than one file per day or per client. This keeps aggregate queries trivial
// and makes backup a single-file copy.
type HitDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// queue carries hits from request handlers to the writer goroutine.
	queue chan model.Hit

	// done is closed once the writer goroutine has drained the queue.
	done chan struct{}

	// closeOnce guards queue shutdown.
	closeOnce sync.Once
}

// Options configures HitDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool

	// QueueSize is the capacity of the asynchronous write queue.
	// Hits arriving while the queue is full are dropped.
	QueueSize int
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		QueueSize:         256,
	}
}

// Open opens or creates a HitDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HitDB, error) {
	dbPath := filepath.Join(dbDir, "tsukuyomi.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under the async writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HitDB{
		db:     db,
		dbPath: dbPath,
		queue:  make(chan model.Hit, max(opts.QueueSize, 1)),
		done:   make(chan struct{}),
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	go hdb.writeLoop()

	return hdb, nil
}

// Close drains the write queue and closes the database connection.
func (hdb *HitDB) Close() error {
	hdb.closeOnce.Do(func() {
		close(hdb.queue)
	})
	<-hdb.done
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HitDB) createTables() error {
	schema := `
	-- Hits store individual trap page requests
	CREATE TABLE IF NOT EXISTS hits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts INTEGER NOT NULL,
		client_addr TEXT NOT NULL,
		client_key TEXT NOT NULL,
		user_agent TEXT,
		path TEXT NOT NULL,
		token TEXT NOT NULL,
		depth INTEGER NOT NULL,
		effective_depth INTEGER NOT NULL,
		latency_ms INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_hits_ts ON hits(ts);
	CREATE INDEX IF NOT EXISTS idx_hits_client ON hits(client_key);
	CREATE INDEX IF NOT EXISTS idx_hits_token ON hits(token);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Log queues a hit for asynchronous insertion.
// It never blocks: if the queue is full or the database is closing, the hit
// is dropped. The hit log is telemetry, not a ledger.
func (hdb *HitDB) Log(hit model.Hit) {
	defer func() {
		// Send on a closed queue during shutdown is not an error.
		_ = recover()
	}()
	select {
	case hdb.queue <- hit:
	default:
	}
}

// writeLoop drains the queue into the hits table until the queue is closed.
func (hdb *HitDB) writeLoop() {
	defer close(hdb.done)
	for hit := range hdb.queue {
		_ = hdb.insertHit(context.Background(), hit)
	}
}

// insertHit inserts a single hit row.
func (hdb *HitDB) insertHit(ctx context.Context, hit model.Hit) error {
	query := `
	INSERT INTO hits (ts, client_addr, client_key, user_agent, path, token, depth, effective_depth, latency_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := hdb.db.ExecContext(ctx, query,
		hit.Timestamp.UnixMilli(),
		hit.ClientAddr,
		hit.ClientKey,
		hit.UserAgent,
		hit.Path,
		string(hit.Token),
		hit.Depth,
		hit.EffectiveDepth,
		hit.Latency.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert hit: %w", err)
	}

	return nil
}

// CountHits returns the total number of recorded hits.
func (hdb *HitDB) CountHits(ctx context.Context) (int, error) {
	var count int
	if err := hdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hits").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count hits: %w", err)
	}
	return count, nil
}

// RecentHits returns up to limit hits, newest first.
func (hdb *HitDB) RecentHits(ctx context.Context, limit int) ([]model.Hit, error) {
	query := `
	SELECT ts, client_addr, client_key, user_agent, path, token, depth, effective_depth, latency_ms
	FROM hits
	ORDER BY ts DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query hits: %w", err)
	}
	defer rows.Close()

	var hits []model.Hit
	for rows.Next() {
		var hit model.Hit
		var ts, latencyMS int64
		var token string

		err := rows.Scan(
			&ts,
			&hit.ClientAddr,
			&hit.ClientKey,
			&hit.UserAgent,
			&hit.Path,
			&token,
			&hit.Depth,
			&hit.EffectiveDepth,
			&latencyMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}

		hit.Timestamp = time.UnixMilli(ts)
		hit.Token = model.Token(token)
		hit.Latency = time.Duration(latencyMS) * time.Millisecond
		hits = append(hits, hit)
	}

	return hits, rows.Err()
}

// Summary aggregates the hit log into an operator-facing report.
// Per-client rows are ordered most hits first.
func (hdb *HitDB) Summary(ctx context.Context) (*model.TrapReport, error) {
	report := &model.TrapReport{
		GeneratedAt: time.Now(),
	}

	totals := `
	SELECT COUNT(*), COUNT(DISTINCT client_key),
	       COALESCE(MAX(depth), 0), COALESCE(MIN(ts), 0), COALESCE(MAX(ts), 0)
	FROM hits
	`
	var firstTS, lastTS int64
	err := hdb.db.QueryRowContext(ctx, totals).Scan(
		&report.TotalHits,
		&report.UniqueClients,
		&report.MaxDepth,
		&firstTS,
		&lastTS,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize hits: %w", err)
	}
	if report.TotalHits == 0 {
		return report, nil
	}
	report.FirstHit = time.UnixMilli(firstTS)
	report.LastHit = time.UnixMilli(lastTS)

	perClient := `
	SELECT client_key, MAX(user_agent), COUNT(*), MAX(depth), MIN(ts), MAX(ts)
	FROM hits
	GROUP BY client_key
	ORDER BY COUNT(*) DESC, client_key
	`
	rows, err := hdb.db.QueryContext(ctx, perClient)
	if err != nil {
		return nil, fmt.Errorf("failed to query client activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var activity model.ClientActivity
		var firstSeen, lastSeen int64

		err := rows.Scan(
			&activity.ClientKey,
			&activity.UserAgent,
			&activity.Hits,
			&activity.MaxDepth,
			&firstSeen,
			&lastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client activity: %w", err)
		}

		activity.FirstSeen = time.UnixMilli(firstSeen)
		activity.LastSeen = time.UnixMilli(lastSeen)
		report.Clients = append(report.Clients, activity)
	}

	return report, rows.Err()
}
