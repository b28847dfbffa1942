package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trialdash/patient-api/internal/config"
	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/storage"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
	"github.com/trialdash/patient-api/pkg/logger"
)

// fakeObjectStore serves a fixed file listing.
type fakeObjectStore struct {
	files []storage.SessionFile
	err   error
}

func (f *fakeObjectStore) ListSessionFiles(ctx context.Context) ([]storage.SessionFile, error) {
	return f.files, f.err
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) ListByPatient(ctx context.Context, patientCode string) ([]*model.SessionRecord, error) {
	args := m.Called(ctx, patientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SessionRecord), args.Error(1)
}

func (m *mockSessionRepo) CompletedScores(ctx context.Context, patientCode string) ([]float64, error) {
	args := m.Called(ctx, patientCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func (m *mockSessionRepo) CountCompletedSince(ctx context.Context, patientCode string, since time.Time) (int, error) {
	args := m.Called(ctx, patientCode, since)
	return args.Int(0), args.Error(1)
}

func testTrialConfig() config.TrialConfig {
	return config.TrialConfig{
		DurationDays:    84,
		TrendWindow:     3,
		SessionPageSize: 10,
	}
}

func TestListPatientSessions(t *testing.T) {
	recDate := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	score := 78.5
	contractions := 42

	store := &fakeObjectStore{files: []storage.SessionFile{
		{Key: "recordings/P001_20260401T090000.bin"},
		{Key: "recordings/P001_session2.bin"},
		{Key: "recordings/P002_20260402T090000.bin"},
	}}

	repo := new(mockSessionRepo)
	repo.On("ListByPatient", mock.Anything, "P001").Return([]*model.SessionRecord{
		{
			PatientCode:      "P001",
			FileKey:          "recordings/P001_session2.bin",
			SessionDate:      &recDate,
			Status:           model.SessionStatusCompleted,
			PerformanceScore: &score,
			ContractionCount: &contractions,
		},
	}, nil)

	svc := NewService(store, repo, testTrialConfig(), logger.NewLogger(nil))

	page, err := svc.ListPatientSessions(context.Background(), "P001", 1, SortDescending)
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, 2, page.Total)

	// the record-dated file (April 10) sorts before the filename-dated one
	first := page.Rows[0]
	assert.Equal(t, "recordings/P001_session2.bin", first.FileKey)
	assert.Equal(t, model.SessionStatusCompleted, first.Status)
	require.NotNil(t, first.PerformanceScore)
	assert.Equal(t, 78.5, *first.PerformanceScore)

	second := page.Rows[1]
	assert.Equal(t, "recordings/P001_20260401T090000.bin", second.FileKey)
	assert.Equal(t, model.SessionStatusNotProcessed, second.Status)
	assert.Nil(t, second.PerformanceScore)

	repo.AssertExpectations(t)
}

func TestListPatientSessions_UndatedFilesKeptAtEnd(t *testing.T) {
	store := &fakeObjectStore{files: []storage.SessionFile{
		{Key: "recordings/P001_notes.bin"},
		{Key: "recordings/P001_20260401.bin"},
	}}

	repo := new(mockSessionRepo)
	repo.On("ListByPatient", mock.Anything, "P001").Return([]*model.SessionRecord{}, nil)

	svc := NewService(store, repo, testTrialConfig(), logger.NewLogger(nil))

	for _, dir := range []SortDirection{SortAscending, SortDescending} {
		page, err := svc.ListPatientSessions(context.Background(), "P001", 1, dir)
		require.NoError(t, err)
		require.Len(t, page.Rows, 2)
		assert.Equal(t, "recordings/P001_notes.bin", page.Rows[1].FileKey, "dir %s", dir)
		assert.Nil(t, page.Rows[1].SessionDate)
	}
}

func TestListPatientSessions_StorageUnavailable(t *testing.T) {
	store := &fakeObjectStore{err: errors.New("connect timeout")}
	svc := NewService(store, new(mockSessionRepo), testTrialConfig(), logger.NewLogger(nil))

	_, err := svc.ListPatientSessions(context.Background(), "P001", 1, SortDescending)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnavailable, appErr.Code)
}

func TestListPatientSessions_UnknownDirectionDefaultsToDescending(t *testing.T) {
	t2 := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	store := &fakeObjectStore{files: []storage.SessionFile{
		{Key: "recordings/P001_20260301.bin"},
		{Key: "recordings/P001_20260401.bin"},
	}}

	repo := new(mockSessionRepo)
	repo.On("ListByPatient", mock.Anything, "P001").Return([]*model.SessionRecord{}, nil)

	svc := NewService(store, repo, testTrialConfig(), logger.NewLogger(nil))

	page, err := svc.ListPatientSessions(context.Background(), "P001", 1, SortDirection("sideways"))
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	require.NotNil(t, page.Rows[0].SessionDate)
	assert.True(t, page.Rows[0].SessionDate.Equal(t2))
}
