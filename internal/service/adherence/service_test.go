package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialdash/patient-api/internal/model"
)

func TestCompute_Score(t *testing.T) {
	rec := Compute(5, 10, 7, 84)
	require.NotNil(t, rec)
	require.NotNil(t, rec.AdherenceScore)
	assert.Equal(t, 50, *rec.AdherenceScore)
	assert.Equal(t, model.ThresholdModerate, rec.ClinicalThreshold)
	assert.Equal(t, 7, rec.ProtocolDay)
	assert.Equal(t, 5, rec.SessionsCompleted)
	assert.Equal(t, 10, rec.SessionsExpected)
}

func TestCompute_Rounding(t *testing.T) {
	rec := Compute(2, 3, 10, 84)
	require.NotNil(t, rec)
	require.NotNil(t, rec.AdherenceScore)
	assert.Equal(t, 67, *rec.AdherenceScore)
}

func TestCompute_ZeroExpected(t *testing.T) {
	rec := Compute(3, 0, 10, 84)
	require.NotNil(t, rec)
	assert.Nil(t, rec.AdherenceScore)
	assert.Equal(t, model.ThresholdNotApplicable, rec.ClinicalThreshold)
}

func TestCompute_BeforeMinProtocolDay(t *testing.T) {
	assert.Nil(t, Compute(1, 2, 1, 84))
	assert.Nil(t, Compute(1, 2, 2, 84))
	assert.NotNil(t, Compute(1, 2, 3, 84))
}

func TestCompute_ProtocolDayCappedAtTrialDuration(t *testing.T) {
	rec := Compute(80, 80, 200, 84)
	require.NotNil(t, rec)
	assert.Equal(t, 84, rec.ProtocolDay)
}

func TestCompute_Over100NotClamped(t *testing.T) {
	rec := Compute(12, 10, 30, 84)
	require.NotNil(t, rec)
	require.NotNil(t, rec.AdherenceScore)
	assert.Equal(t, 120, *rec.AdherenceScore)
	assert.Equal(t, model.ThresholdExcellent, rec.ClinicalThreshold)
}

func TestThresholdFor_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  model.ClinicalThreshold
	}{
		{100, model.ThresholdExcellent},
		{85, model.ThresholdExcellent},
		{84, model.ThresholdGood},
		{70, model.ThresholdGood},
		{69, model.ThresholdModerate},
		{50, model.ThresholdModerate},
		{49, model.ThresholdPoor},
		{0, model.ThresholdPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ThresholdFor(tt.score), "score %d", tt.score)
	}
}

func TestProtocolDay(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ProtocolDay(start, start))
	assert.Equal(t, 1, ProtocolDay(start, start.Add(12*time.Hour)))
	assert.Equal(t, 8, ProtocolDay(start, start.AddDate(0, 0, 7)))
	assert.Equal(t, 0, ProtocolDay(start, start.AddDate(0, 0, -1)))
}

func TestExpectedSessions(t *testing.T) {
	// 42 planned sessions over 84 days: one every other day.
	assert.Equal(t, 7, ExpectedSessions(14, 42, 84))
	assert.Equal(t, 42, ExpectedSessions(84, 42, 84))
	// past the trial window the expectation stops growing
	assert.Equal(t, 42, ExpectedSessions(120, 42, 84))
	assert.Equal(t, 0, ExpectedSessions(10, 0, 84))
	assert.Equal(t, 0, ExpectedSessions(10, 42, 0))
}
