package adherence

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/trialdash/patient-api/internal/config"
	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
	"github.com/trialdash/patient-api/pkg/logger"
	"github.com/trialdash/patient-api/pkg/metrics"
)

// MinProtocolDay is the first day an adherence record is produced.
// Earlier days are excluded for measurement stability.
const MinProtocolDay = 3

type Service struct {
	sessions repository.SessionRepository
	trial    config.TrialConfig
	cache    *cache.Cache
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(sessions repository.SessionRepository, trial config.TrialConfig, m *metrics.Metrics, l *logger.Logger) *Service {
	return &Service{
		sessions: sessions,
		trial:    trial,
		cache:    cache.New(trial.MetricsCacheTTL, 2*trial.MetricsCacheTTL),
		metrics:  m,
		logger:   l,
	}
}

// Compute derives an adherence record from session counters. Returns nil
// before MinProtocolDay. A zero expected-session count yields a nil
// score and an N/A threshold, never a division by zero. The score is
// the raw rounded percentage and may exceed 100 when a patient has
// completed more sessions than expected.
func Compute(sessionsCompleted, sessionsExpected, protocolDay, trialDuration int) *model.AdherenceRecord {
	if protocolDay < MinProtocolDay {
		return nil
	}
	if trialDuration > 0 && protocolDay > trialDuration {
		protocolDay = trialDuration
	}

	rec := &model.AdherenceRecord{
		SessionsCompleted: sessionsCompleted,
		SessionsExpected:  sessionsExpected,
		ProtocolDay:       protocolDay,
		ClinicalThreshold: model.ThresholdNotApplicable,
	}
	if sessionsExpected <= 0 {
		return rec
	}

	score := int(math.Round(100 * float64(sessionsCompleted) / float64(sessionsExpected)))
	rec.AdherenceScore = &score
	rec.ClinicalThreshold = ThresholdFor(score)
	return rec
}

// ThresholdFor classifies an adherence score. Breakpoints are applied in
// descending order, first match wins.
func ThresholdFor(score int) model.ClinicalThreshold {
	switch {
	case score >= 85:
		return model.ThresholdExcellent
	case score >= 70:
		return model.ThresholdGood
	case score >= 50:
		return model.ThresholdModerate
	default:
		return model.ThresholdPoor
	}
}

// ProtocolDay returns the 1-based elapsed day within the trial window,
// or 0 when treatment has not started.
func ProtocolDay(treatmentStart time.Time, now time.Time) int {
	if now.Before(treatmentStart) {
		return 0
	}
	return int(now.Sub(treatmentStart).Hours()/24) + 1
}

// ExpectedSessions spreads the planned session total evenly over the
// trial window and returns how many should be done by the given day.
func ExpectedSessions(protocolDay, totalPlanned, trialDuration int) int {
	if trialDuration <= 0 || totalPlanned <= 0 {
		return 0
	}
	if protocolDay > trialDuration {
		protocolDay = trialDuration
	}
	return protocolDay * totalPlanned / trialDuration
}

// ForPatient derives the adherence record and performance trend for one
// patient. A trend fetch failure is logged and leaves the trend nil; the
// adherence record itself is purely arithmetic and cannot fail.
func (s *Service) ForPatient(ctx context.Context, patient *model.Patient) *model.PatientMetrics {
	m := &model.PatientMetrics{}

	if patient.TreatmentStart != nil {
		day := ProtocolDay(*patient.TreatmentStart, time.Now())
		expected := ExpectedSessions(day, patient.TotalSessionsPlanned, s.trial.DurationDays)
		rec := Compute(patient.SessionCount, expected, day, s.trial.DurationDays)
		if rec != nil {
			rec.PatientCode = patient.PatientCode
			m.Adherence = rec
		}
		s.metrics.AdherenceComputations.Inc()
	}

	trend, err := s.TrendForPatient(ctx, patient.PatientCode)
	if err != nil {
		s.logger.Error(err, "failed to compute performance trend", "patient_code", patient.PatientCode)
	} else {
		m.Trend = trend
	}

	return m
}

// Lookup builds the per-patient metrics map the table view consumes.
// Entries are memoized with a short TTL so repeated dashboard fetches do
// not recompute trends; nothing outlives the cache window.
func (s *Service) Lookup(ctx context.Context, patients []*model.Patient) map[string]*model.PatientMetrics {
	lookup := make(map[string]*model.PatientMetrics, len(patients))
	for _, p := range patients {
		key := fmt.Sprintf("metrics:%s", p.PatientCode)
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.AdherenceCacheHits.Inc()
			lookup[p.PatientCode] = cached.(*model.PatientMetrics)
			continue
		}
		s.metrics.AdherenceCacheMisses.Inc()

		m := s.ForPatient(ctx, p)
		s.cache.Set(key, m, cache.DefaultExpiration)
		lookup[p.PatientCode] = m
	}
	return lookup
}

// Invalidate drops the memoized metrics for one patient, e.g. after an
// edit that changes its counters.
func (s *Service) Invalidate(patientCode string) {
	s.cache.Delete(fmt.Sprintf("metrics:%s", patientCode))
}
