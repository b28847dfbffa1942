package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/trialdash/patient-api/internal/config"
	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
	"github.com/trialdash/patient-api/internal/service/adherence"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
	"github.com/trialdash/patient-api/pkg/logger"
	"github.com/trialdash/patient-api/pkg/metrics"
)

// MockPatientRepository is a mock implementation of PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) GetByCode(ctx context.Context, code string) (*model.Patient, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockPatientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) GetMedicalInfo(ctx context.Context, patientID uuid.UUID) (*model.MedicalInfo, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalInfo), args.Error(1)
}

func (m *MockPatientRepository) UpsertMedicalInfo(ctx context.Context, info *model.MedicalInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *MockPatientRepository) RefreshSessionCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
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

var testMetrics = metrics.NewMetrics("trialdash", "patient_test")

func newTestService(repo repository.PatientRepository, sessions repository.SessionRepository) *Service {
	trial := config.TrialConfig{
		DurationDays:    84,
		TrendWindow:     3,
		SessionPageSize: 10,
		MetricsCacheTTL: time.Minute,
	}
	l := logger.NewLogger(nil)
	return NewService(repo, adherence.NewService(sessions, trial, testMetrics, l), l)
}

func TestCreatePatient(t *testing.T) {
	repo := new(MockPatientRepository)
	repo.On("GetByCode", mock.Anything, "P001").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Patient")).Return(nil)

	svc := newTestService(repo, new(mockSessionRepo))

	created, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientCode:          "P001",
		FirstName:            "Anna",
		LastName:             "Berg",
		TotalSessionsPlanned: 42,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, "P001", created.PatientCode)

	repo.AssertExpectations(t)
}

func TestCreatePatient_MalformedCode(t *testing.T) {
	svc := newTestService(new(MockPatientRepository), new(mockSessionRepo))

	_, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientCode: "bad code",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestCreatePatient_DuplicateCode(t *testing.T) {
	repo := new(MockPatientRepository)
	repo.On("GetByCode", mock.Anything, "P001").Return(&model.Patient{PatientCode: "P001"}, nil)

	svc := newTestService(repo, new(mockSessionRepo))

	_, err := svc.CreatePatient(context.Background(), &model.CreatePatientRequest{
		PatientCode: "P001",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestUpdatePatient_MergesOnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	repo := new(MockPatientRepository)
	repo.On("Get", mock.Anything, id).Return(&model.Patient{
		Base:                 model.Base{ID: id},
		PatientCode:          "P001",
		FirstName:            "Anna",
		LastName:             "Berg",
		Active:               true,
		TotalSessionsPlanned: 42,
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Patient")).Return(nil)

	svc := newTestService(repo, new(mockSessionRepo))

	newLast := "Lund"
	updated, err := svc.UpdatePatient(context.Background(), id, &model.UpdatePatientRequest{
		LastName: &newLast,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, "Lund", updated.LastName)
	assert.Equal(t, 42, updated.TotalSessionsPlanned)

	repo.AssertExpectations(t)
}

func TestDeactivatePatient(t *testing.T) {
	id := uuid.New()
	repo := new(MockPatientRepository)
	repo.On("Get", mock.Anything, id).Return(&model.Patient{
		Base:        model.Base{ID: id},
		PatientCode: "P001",
		Active:      true,
	}, nil)
	repo.On("SetActive", mock.Anything, id, false).Return(nil)

	svc := newTestService(repo, new(mockSessionRepo))

	require.NoError(t, svc.DeactivatePatient(context.Background(), id))
	repo.AssertExpectations(t)
}

func TestUpdateMedicalInfo_MergesExistingRow(t *testing.T) {
	id := uuid.New()
	room := "204"
	height := 172.0

	repo := new(MockPatientRepository)
	repo.On("Get", mock.Anything, id).Return(&model.Patient{
		Base:        model.Base{ID: id},
		PatientCode: "P001",
	}, nil)
	repo.On("GetMedicalInfo", mock.Anything, id).Return(&model.MedicalInfo{
		PatientID: id,
		Room:      &room,
	}, nil)
	repo.On("UpsertMedicalInfo", mock.Anything, mock.AnythingOfType("*model.MedicalInfo")).Return(nil)

	svc := newTestService(repo, new(mockSessionRepo))

	info, err := svc.UpdateMedicalInfo(context.Background(), id, &model.UpdateMedicalInfoRequest{
		HeightCM: &height,
	})
	require.NoError(t, err)
	require.NotNil(t, info.Room)
	assert.Equal(t, "204", *info.Room)
	require.NotNil(t, info.HeightCM)
	assert.Equal(t, 172.0, *info.HeightCM)
}

func TestListDashboard(t *testing.T) {
	start := time.Now().AddDate(0, 0, -13)
	repo := new(MockPatientRepository)
	repo.On("List", mock.Anything, mock.AnythingOfType("*model.PatientFilters")).Return([]*model.Patient{
		{
			PatientCode:          "P002",
			FirstName:            "Eva",
			LastName:             "Falk",
			Active:               true,
			TotalSessionsPlanned: 42,
			SessionCount:         5,
			TreatmentStart:       &start,
		},
		{
			PatientCode: "P001",
			Active:      true,
		},
	}, nil)

	sessions := new(mockSessionRepo)
	sessions.On("CompletedScores", mock.Anything, mock.AnythingOfType("string")).Return([]float64{}, nil)

	svc := newTestService(repo, sessions)

	rows, err := svc.ListDashboard(context.Background(), &ListRequest{
		SortField:     SortByCode,
		SortDirection: SortAscending,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "P001", rows[0].Patient.PatientCode)
	// a patient without names renders by code
	assert.Equal(t, "P001", rows[0].DisplayName)
	assert.Equal(t, "Eva Falk", rows[1].DisplayName)
	assert.NotNil(t, rows[1].Adherence)
	assert.NotEmpty(t, rows[1].AvatarInitials)
}
