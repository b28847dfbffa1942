package model

type ClinicalThreshold string

const (
	ThresholdExcellent     ClinicalThreshold = "Excellent"
	ThresholdGood          ClinicalThreshold = "Good"
	ThresholdModerate      ClinicalThreshold = "Moderate"
	ThresholdPoor          ClinicalThreshold = "Poor"
	ThresholdNotApplicable ClinicalThreshold = "N/A"
)

// AdherenceRecord is derived per fetch and never persisted. Score is nil
// when no sessions were expected yet (no division by zero).
type AdherenceRecord struct {
	PatientCode       string            `json:"patient_code"`
	AdherenceScore    *int              `json:"adherence_score,omitempty"`
	SessionsCompleted int               `json:"sessions_completed"`
	SessionsExpected  int               `json:"sessions_expected"`
	ProtocolDay       int               `json:"protocol_day"`
	ClinicalThreshold ClinicalThreshold `json:"clinical_threshold"`
}

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// PerformanceTrend compares the rolling average of the most recent
// scored sessions against the preceding window.
type PerformanceTrend struct {
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"change_percent"`
	RecentAverage float64        `json:"recent_average"`
	PriorAverage  float64        `json:"prior_average"`
	SampleSize    int            `json:"sample_size"`
}

// PatientMetrics bundles the derived per-patient metrics the table and
// profile views consume. Either field may be nil when the underlying
// data is insufficient.
type PatientMetrics struct {
	Adherence *AdherenceRecord  `json:"adherence,omitempty"`
	Trend     *PerformanceTrend `json:"trend,omitempty"`
}
