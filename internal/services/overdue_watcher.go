package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/store"
)

// OverdueWatcher periodically warns assignees about overdue tasks.
type OverdueWatcher struct {
	store    *store.Store
	interval time.Duration
	log      logrus.FieldLogger
}

func NewOverdueWatcher(s *store.Store, interval time.Duration, log logrus.FieldLogger) *OverdueWatcher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueWatcher{store: s, interval: interval, log: log}
}

// Run scans once immediately and then on every tick until ctx is done.
func (w *OverdueWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Overdue watcher stopped")
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *OverdueWatcher) scan() int {
	emitted, err := w.store.CheckOverdue(w.store.Now())
	if err != nil {
		w.log.WithError(err).Error("Overdue scan failed")
	}
	return len(emitted)
}
