package worker

import (
	"context"
	"time"

	"github.com/trialdash/patient-api/internal/repository"
	"github.com/trialdash/patient-api/pkg/logger"
	"github.com/trialdash/patient-api/pkg/metrics"
)

// SessionRefreshWorker periodically recomputes each patient's
// session_count and last_session from the therapy_sessions table, which
// the external ingestion pipeline writes to independently.
type SessionRefreshWorker struct {
	repo     repository.PatientRepository
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewSessionRefreshWorker(repo repository.PatientRepository, interval time.Duration, m *metrics.Metrics, l *logger.Logger) *SessionRefreshWorker {
	return &SessionRefreshWorker{
		repo:     repo,
		interval: interval,
		metrics:  m,
		logger:   l,
	}
}

func (w *SessionRefreshWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				// Log error but continue
				w.logger.Error(err, "session counter refresh failed")
			}
		}
	}
}

func (w *SessionRefreshWorker) refresh(ctx context.Context) error {
	start := time.Now()
	updated, err := w.repo.RefreshSessionCounters(ctx)
	w.metrics.DatabaseLatency.WithLabelValues("refresh_session_counters").Observe(time.Since(start).Seconds())
	if err != nil {
		w.metrics.DatabaseOperations.WithLabelValues("refresh_session_counters", "error").Inc()
		return err
	}
	w.metrics.DatabaseOperations.WithLabelValues("refresh_session_counters", "success").Inc()

	if updated > 0 {
		w.logger.Info("refreshed session counters", "patients_updated", updated)
	}
	return nil
}
