package patient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
	"github.com/trialdash/patient-api/pkg/avatar"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
)

// Age returns completed years at `now`, or nil without a birth date.
// The birthday itself counts: evaluated on the birthday, the new age is
// already in effect.
func Age(dob *time.Time, now time.Time) *int {
	if dob == nil {
		return nil
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years
}

// BMI computes weight_kg / height_m² rounded to one decimal.
func BMI(heightCM, weightKG float64) *float64 {
	if heightCM <= 0 || weightKG <= 0 {
		return nil
	}
	h := heightCM / 100
	v := math.Round(weightKG/(h*h)*10) / 10
	return &v
}

// BMICategoryFor applies the fixed breakpoints. The boundary values
// belong to the higher category: exactly 25.0 is overweight.
func BMICategoryFor(bmi float64) model.BMICategory {
	switch {
	case bmi < 18.5:
		return model.BMIUnderweight
	case bmi < 25:
		return model.BMINormal
	case bmi < 30:
		return model.BMIOverweight
	default:
		return model.BMIObese
	}
}

// MissedSessions is expected-by-now minus completed, floored at zero.
func MissedSessions(expected, completed int) int {
	if missed := expected - completed; missed > 0 {
		return missed
	}
	return 0
}

// GetProfile assembles one patient's display record. Only the core
// patient fetch is fatal: a missing or failing medical-info row or
// metrics source leaves the corresponding fields nil and the profile
// still loads.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to load patient: %w", err))
	}

	profile := &model.PatientProfile{
		Patient:        *p,
		AvatarInitials: avatar.Initials(p.DisplayName()),
		AvatarColor:    avatar.Color(p.PatientCode),
	}

	medical, err := s.repo.GetMedicalInfo(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// No medical row yet; demographics render as "Not specified".
	case err != nil:
		s.logger.Error(err, "failed to load medical info", "patient_code", p.PatientCode)
	default:
		profile.Medical = medical
		profile.Age = Age(medical.DateOfBirth, time.Now())
		if medical.HeightCM != nil && medical.WeightKG != nil {
			profile.BMI = BMI(*medical.HeightCM, *medical.WeightKG)
			if profile.BMI != nil {
				cat := BMICategoryFor(*profile.BMI)
				profile.BMICategory = &cat
			}
		}
	}

	metrics := s.adherence.ForPatient(ctx, p)
	profile.Adherence = metrics.Adherence
	profile.Trend = metrics.Trend
	if metrics.Adherence != nil {
		profile.MissedSessions = MissedSessions(metrics.Adherence.SessionsExpected, metrics.Adherence.SessionsCompleted)
	}

	return profile, nil
}
