package session

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/trialdash/patient-api/internal/config"
	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
	"github.com/trialdash/patient-api/internal/storage"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
	"github.com/trialdash/patient-api/pkg/logger"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

type Service struct {
	store  storage.ObjectStore
	repo   repository.SessionRepository
	trial  config.TrialConfig
	logger *logger.Logger
}

func NewService(store storage.ObjectStore, repo repository.SessionRepository, trial config.TrialConfig, l *logger.Logger) *Service {
	return &Service{
		store:  store,
		repo:   repo,
		trial:  trial,
		logger: l,
	}
}

// ListPatientSessions resolves the patient's stored recording files into
// ordered, paginated session rows. Files whose date cannot be resolved
// are kept, with a nil date, at the end of the ordering. Score and
// contraction count stay nil unless the processing pipeline produced
// them.
func (s *Service) ListPatientSessions(ctx context.Context, patientCode string, page int, dir SortDirection) (*model.SessionPage, error) {
	if dir != SortAscending {
		dir = SortDescending
	}

	files, err := s.store.ListSessionFiles(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable("session file storage", err)
	}

	records, err := s.repo.ListByPatient(ctx, patientCode)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to load session records: %w", err))
	}
	byKey := lo.KeyBy(records, func(r *model.SessionRecord) string {
		return r.FileKey
	})

	rows := lo.FilterMap(files, func(f storage.SessionFile, _ int) (model.SessionRow, bool) {
		if !matchesPatient(f, patientCode) {
			return model.SessionRow{}, false
		}

		rec := byKey[f.Key]
		row := model.SessionRow{
			FileKey:     f.Key,
			PatientCode: patientCode,
			SessionDate: resolveDate(f, rec),
			Status:      model.SessionStatusNotProcessed,
		}
		if rec != nil {
			row.Status = rec.Status
			row.PerformanceScore = rec.PerformanceScore
			row.ContractionCount = rec.ContractionCount
		}
		return row, true
	})

	sortRows(rows, dir)
	return paginate(rows, page, s.trial.SessionPageSize), nil
}
