package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDailyQuota is the standard Data API project allowance.
const DefaultDailyQuota = 10000

// Unit costs per Data API list call. Unknown endpoints cost 1.
var quotaCosts = map[string]int64{
	"videos":          1,
	"channels":        1,
	"playlists":       1,
	"playlistItems":   1,
	"commentThreads":  1,
	"comments":        1,
	"videoCategories": 1,
	"captions":        50,
	"search":          100,
}

// QuotaCost returns the unit cost of one list call on endpoint.
func QuotaCost(endpoint string) int64 {
	if c, ok := quotaCosts[endpoint]; ok {
		return c
	}
	return 1
}

// QuotaCosts returns a copy of the cost table.
func QuotaCosts() map[string]int64 {
	return maps.Clone(quotaCosts)
}

// QuotaSnapshot is a point-in-time view of the ledger.
type QuotaSnapshot struct {
	Day        string           `json:"day"`
	Used       int64            `json:"used_units"`
	Limit      int64            `json:"daily_limit"`
	Remaining  int64            `json:"remaining_units"`
	ByEndpoint map[string]int64 `json:"units_by_endpoint"`
	Calls      map[string]int64 `json:"calls_by_endpoint"`
	Persistent bool             `json:"persistent"`
}

// QuotaLedger counts units spent per UTC day. It never blocks a call;
// the upstream is the authority on actual exhaustion.
type QuotaLedger struct {
	mu     sync.Mutex
	limit  int64
	day    string
	used   int64
	units  map[string]int64
	calls  map[string]int64
	warned bool
	db     *sql.DB
	now    func() time.Time
}

// NewQuotaLedger creates a ledger; a non-positive limit means DefaultDailyQuota. With a non-empty dbPath, usage is stored
// in SQLite and today's totals are reloaded on start.
func NewQuotaLedger(limit int64, dbPath string) (*QuotaLedger, error) {
	if limit <= 0 {
		limit = DefaultDailyQuota
	}
	l := &QuotaLedger{
		limit: limit,
		units: map[string]int64{},
		calls: map[string]int64{},
		now:   time.Now,
	}
	l.day = l.today()
	if dbPath == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("quota: mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("quota: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS quota_usage (
		day      TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		units    INTEGER NOT NULL DEFAULT 0,
		calls    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (day, endpoint)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("quota: init schema: %w", err)
	}
	l.db = db
	if err := l.load(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *QuotaLedger) today() string {
	return l.now().UTC().Format(time.DateOnly)
}

// load reads today's rows into memory.
func (l *QuotaLedger) load() error {
	rows, err := l.db.Query(`SELECT endpoint, units, calls FROM quota_usage WHERE day = ?`, l.day)
	if err != nil {
		return fmt.Errorf("quota: load: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ep string
		var units, calls int64
		if err := rows.Scan(&ep, &units, &calls); err != nil {
			return fmt.Errorf("quota: scan: %w", err)
		}
		l.units[ep] = units
		l.calls[ep] = calls
		l.used += units
	}
	return rows.Err()
}

// rollover resets counters when the UTC day changed. Caller holds mu.
func (l *QuotaLedger) rollover() {
	if d := l.today(); d != l.day {
		l.day = d
		l.used = 0
		l.warned = false
		clear(l.units)
		clear(l.calls)
	}
}

// Charge records one call on endpoint and returns the units charged.
func (l *QuotaLedger) Charge(ctx context.Context, endpoint string) int64 {
	cost := QuotaCost(endpoint)

	l.mu.Lock()
	l.rollover()
	l.used += cost
	l.units[endpoint] += cost
	l.calls[endpoint]++
	day, used := l.day, l.used
	crossed := !l.warned && l.limit > 0 && used*5 >= l.limit*4
	if crossed {
		l.warned = true
	}
	l.mu.Unlock()

	if crossed {
		slog.Warn("quota: daily usage above 80%",
			slog.Int64("used", used), slog.Int64("limit", l.limit))
	}

	if l.db != nil {
		_, err := l.db.ExecContext(ctx, `INSERT INTO quota_usage (day, endpoint, units, calls) VALUES (?, ?, ?, 1)
			ON CONFLICT(day, endpoint) DO UPDATE SET units = units + excluded.units, calls = calls + 1`,
			day, endpoint, cost)
		if err != nil {
			slog.Debug("quota: persist failed", slog.Any("error", err))
		}
	}
	return cost
}

// Snapshot returns today's usage.
func (l *QuotaLedger) Snapshot() QuotaSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	remaining := l.limit - l.used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaSnapshot{
		Day:        l.day,
		Used:       l.used,
		Limit:      l.limit,
		Remaining:  remaining,
		ByEndpoint: maps.Clone(l.units),
		Calls:      maps.Clone(l.calls),
		Persistent: l.db != nil,
	}
}

// Close releases the SQLite handle, if any.
func (l *QuotaLedger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

var (
	quotaMu     sync.Mutex
	quotaLedger *QuotaLedger
)

// InitQuota installs the process-wide ledger.
func InitQuota(limit int64, dbPath string) error {
	l, err := NewQuotaLedger(limit, dbPath)
	if err != nil {
		return err
	}
	quotaMu.Lock()
	quotaLedger = l
	quotaMu.Unlock()
	return nil
}

// Quota returns the process-wide ledger, creating an in-memory one on first use.
func Quota() *QuotaLedger {
	quotaMu.Lock()
	defer quotaMu.Unlock()
	if quotaLedger == nil {
		quotaLedger, _ = NewQuotaLedger(cfg.DailyQuota, "")
	}
	return quotaLedger
}
