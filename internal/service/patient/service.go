package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
	"github.com/trialdash/patient-api/internal/service/adherence"
	"github.com/trialdash/patient-api/pkg/avatar"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
	"github.com/trialdash/patient-api/pkg/logger"
	"github.com/trialdash/patient-api/pkg/validator"
)

type Service struct {
	repo      repository.PatientRepository
	adherence *adherence.Service
	logger    *logger.Logger
}

func NewService(repo repository.PatientRepository, adherenceSvc *adherence.Service, l *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		adherence: adherenceSvc,
		logger:    l,
	}
}

// ListRequest carries the dashboard table parameters.
type ListRequest struct {
	Filters       Filters
	SortField     SortField
	SortDirection SortDirection
	TherapistID   *uuid.UUID
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if !validator.IsPatientCode(req.PatientCode) {
		return nil, apperrors.BadRequest("malformed patient code", nil)
	}

	existing, err := s.repo.GetByCode(ctx, req.PatientCode)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(fmt.Errorf("failed to check patient code: %w", err))
	}
	if existing != nil {
		return nil, apperrors.Conflict("patient code already exists", nil)
	}

	patient := &model.Patient{
		Base: model.Base{
			ID: uuid.New(),
		},
		PatientCode:          req.PatientCode,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Active:               true,
		TherapistID:          req.TherapistID,
		TotalSessionsPlanned: req.TotalSessionsPlanned,
		TreatmentStart:       req.TreatmentStart,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create patient: %w", err))
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to get patient: %w", err))
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.TherapistID != nil {
		patient.TherapistID = req.TherapistID
	}
	if req.TotalSessionsPlanned != nil {
		patient.TotalSessionsPlanned = *req.TotalSessionsPlanned
	}
	if req.TreatmentStart != nil {
		patient.TreatmentStart = req.TreatmentStart
	}
	if req.Active != nil {
		patient.Active = *req.Active
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update patient: %w", err))
	}

	s.adherence.Invalidate(patient.PatientCode)
	return patient, nil
}

// DeactivatePatient flips the active flag. Patients are never hard
// deleted from this view.
func (s *Service) DeactivatePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return apperrors.Internal(fmt.Errorf("failed to deactivate patient: %w", err))
	}

	s.adherence.Invalidate(patient.PatientCode)
	return nil
}

func (s *Service) UpdateMedicalInfo(ctx context.Context, id uuid.UUID, req *model.UpdateMedicalInfoRequest) (*model.MedicalInfo, error) {
	if _, err := s.GetPatient(ctx, id); err != nil {
		return nil, err
	}

	info := &model.MedicalInfo{PatientID: id}
	if existing, err := s.repo.GetMedicalInfo(ctx, id); err == nil {
		info = existing
	}

	if req.DateOfBirth != nil {
		info.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		info.Gender = req.Gender
	}
	if req.Room != nil {
		info.Room = req.Room
	}
	if req.Diagnosis != nil {
		info.Diagnosis = req.Diagnosis
	}
	if req.MobilityStatus != nil {
		info.MobilityStatus = req.MobilityStatus
	}
	if req.CognitiveStatus != nil {
		info.CognitiveStatus = req.CognitiveStatus
	}
	if req.HeightCM != nil {
		info.HeightCM = req.HeightCM
	}
	if req.WeightKG != nil {
		info.WeightKG = req.WeightKG
	}

	if err := s.repo.UpsertMedicalInfo(ctx, info); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to save medical info: %w", err))
	}
	return info, nil
}

// GetMetrics derives the adherence record and trend for one patient.
// Recomputed on every fetch; nothing is persisted.
func (s *Service) GetMetrics(ctx context.Context, id uuid.UUID) (*model.PatientMetrics, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.adherence.ForPatient(ctx, patient), nil
}

// ListDashboard produces the filtered, sorted patient table rows for a
// therapist's roster, with derived metrics attached.
func (s *Service) ListDashboard(ctx context.Context, req *ListRequest) ([]model.PatientListRow, error) {
	patients, err := s.repo.List(ctx, &model.PatientFilters{TherapistID: req.TherapistID})
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list patients: %w", err))
	}

	lookup := s.adherence.Lookup(ctx, patients)
	ordered := FilterAndSort(patients, req.Filters, req.SortField, req.SortDirection, lookup)

	now := time.Now()
	return lo.Map(ordered, func(p *model.Patient, _ int) model.PatientListRow {
		row := model.PatientListRow{
			Patient:        *p,
			DisplayName:    p.DisplayName(),
			Age:            Age(p.DateOfBirth, now),
			AvatarInitials: avatar.Initials(p.DisplayName()),
			AvatarColor:    avatar.Color(p.PatientCode),
		}
		if m := lookup[p.PatientCode]; m != nil {
			row.Adherence = m.Adherence
			row.Trend = m.Trend
		}
		return row
	}), nil
}
