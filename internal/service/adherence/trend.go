package adherence

import (
	"context"
	"fmt"

	"github.com/trialdash/patient-api/internal/model"
)

// trendDeadbandPercent is the band around zero change treated as stable.
const trendDeadbandPercent = 5.0

// ComputeTrend compares the rolling average of the most recent `window`
// scores against the preceding `window`. Returns nil when fewer than two
// full windows of scored sessions exist, or when the prior window
// averages zero (no meaningful baseline).
func ComputeTrend(scores []float64, window int) *model.PerformanceTrend {
	if window <= 0 || len(scores) < 2*window {
		return nil
	}

	recent := mean(scores[len(scores)-window:])
	prior := mean(scores[len(scores)-2*window : len(scores)-window])
	if prior == 0 {
		return nil
	}

	change := (recent - prior) / prior * 100

	direction := model.TrendStable
	if change > trendDeadbandPercent {
		direction = model.TrendImproving
	} else if change < -trendDeadbandPercent {
		direction = model.TrendDeclining
	}

	return &model.PerformanceTrend{
		Direction:     direction,
		ChangePercent: change,
		RecentAverage: recent,
		PriorAverage:  prior,
		SampleSize:    2 * window,
	}
}

// TrendForPatient loads the patient's completed session scores in date
// order and derives the trend over the configured window.
func (s *Service) TrendForPatient(ctx context.Context, patientCode string) (*model.PerformanceTrend, error) {
	scores, err := s.sessions.CompletedScores(ctx, patientCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores for trend: %w", err)
	}
	return ComputeTrend(scores, s.trial.TrendWindow), nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
