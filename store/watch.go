package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// WatchOptions tunes the change watcher.
type WatchOptions struct {
	// Interval is the polling frequency. Default: 1s.
	Interval time.Duration
	Logger   *slog.Logger
}

func (o *WatchOptions) defaults() {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Watch polls PRAGMA data_version and calls fn whenever another connection
// has written to the database — an out-of-process template edit, for
// example, so the injected badge can refresh without a page mutation.
// Blocks until ctx is cancelled. A failed check is logged and retried on
// the next poll.
func (s *Store) Watch(ctx context.Context, opts WatchOptions, fn func()) {
	opts.defaults()
	log := opts.Logger

	last, err := dataVersion(ctx, s.DB)
	if err != nil {
		log.Warn("store: initial version check failed", "error", err)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	log.Info("store: watch started", "interval", opts.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("store: watch stopped")
			return
		case <-ticker.C:
			cur, err := dataVersion(ctx, s.DB)
			if err != nil {
				log.Warn("store: version check failed", "error", err)
				continue
			}
			if cur != last {
				log.Debug("store: external change detected",
					"old_version", last, "new_version", cur)
				last = cur
				fn()
			}
		}
	}
}

// dataVersion reads PRAGMA data_version, which increments when another
// connection commits to the same database file.
func dataVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var v int64
	err := db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v)
	return v, err
}
