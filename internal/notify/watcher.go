package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/mindtrap/client/internal/logging"
)

// Watcher is the cross-context transport. It polls SQLite's data_version
// pragma, which changes whenever a *different* connection modifies the
// database file, and republishes on the local notifier. Two processes (or
// two windows of the same app) sharing the storage file converge this way:
// each side re-reads the store instead of trusting its in-memory state.
type Watcher struct {
	db       *sql.DB
	notifier Notifier
	interval time.Duration
	log      logging.Logger
}

func NewWatcher(db *sql.DB, notifier Notifier, interval time.Duration, log logging.Logger) *Watcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Watcher{db: db, notifier: notifier, interval: interval, log: log}
}

// Run polls until ctx is cancelled. The first read seeds the baseline and
// does not emit.
func (w *Watcher) Run(ctx context.Context) {
	last, err := w.dataVersion(ctx)
	if err != nil {
		w.log.Warn(ctx, "storage watcher: initial version read failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			v, err := w.dataVersion(ctx)
			if err != nil {
				w.log.Warn(ctx, "storage watcher: version read failed", "error", err)
				continue
			}
			if v != last {
				last = v
				w.log.Debug(ctx, "storage changed by another context", "data_version", v)
				w.notifier.Emit()
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	err := w.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v)
	return v, err
}
