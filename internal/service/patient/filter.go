package patient

import (
	"sort"
	"strings"
	"time"

	"github.com/trialdash/patient-api/internal/model"
)

type SortField string

const (
	SortByCode         SortField = "code"
	SortByName         SortField = "name"
	SortBySessionCount SortField = "sessions"
	SortByLastSession  SortField = "last_session"
	SortByAge          SortField = "age"
	SortByActive       SortField = "active"
	SortByAdherence    SortField = "adherence"
	SortByProtocolDay  SortField = "protocol_day"
	SortByTrend        SortField = "trend"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Filters narrows the patient table.
type Filters struct {
	SearchTerm   string
	ShowInactive bool
}

// FilterAndSort applies the table filters and sort order to a patient
// collection. It is a pure function of its inputs: the input slice is
// never mutated, ties keep their relative input order, and missing sort
// keys rank as the lowest value (first ascending, last descending).
func FilterAndSort(patients []*model.Patient, filters Filters, field SortField, dir SortDirection, lookup map[string]*model.PatientMetrics) []*model.Patient {
	term := strings.ToLower(strings.TrimSpace(filters.SearchTerm))

	out := make([]*model.Patient, 0, len(patients))
	for _, p := range patients {
		if !p.Active && !filters.ShowInactive {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j], field, lookup)
		if dir == SortDescending {
			return c > 0
		}
		return c < 0
	})

	return out
}

// matchesSearch is a case-insensitive substring match against the
// patient code, display name and first/last names; any hit retains the
// row.
func matchesSearch(p *model.Patient, term string) bool {
	for _, field := range []string{p.PatientCode, p.DisplayName(), p.FirstName, p.LastName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func compare(a, b *model.Patient, field SortField, lookup map[string]*model.PatientMetrics) int {
	switch field {
	case SortByName:
		return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
	case SortBySessionCount:
		return compareInt(a.SessionCount, b.SessionCount)
	case SortByLastSession:
		return compareTimePtr(a.LastSession, b.LastSession)
	case SortByAge:
		return compareIntPtr(ageOf(a), ageOf(b))
	case SortByActive:
		return compareBool(a.Active, b.Active)
	case SortByAdherence:
		return compareIntPtr(adherenceScore(lookup, a), adherenceScore(lookup, b))
	case SortByProtocolDay:
		return compareIntPtr(protocolDay(lookup, a), protocolDay(lookup, b))
	case SortByTrend:
		return compareFloatPtr(trendChange(lookup, a), trendChange(lookup, b))
	default:
		return strings.Compare(strings.ToLower(a.PatientCode), strings.ToLower(b.PatientCode))
	}
}

func ageOf(p *model.Patient) *int {
	return Age(p.DateOfBirth, time.Now())
}

func adherenceScore(lookup map[string]*model.PatientMetrics, p *model.Patient) *int {
	if m := lookup[p.PatientCode]; m != nil && m.Adherence != nil {
		return m.Adherence.AdherenceScore
	}
	return nil
}

func protocolDay(lookup map[string]*model.PatientMetrics, p *model.Patient) *int {
	if m := lookup[p.PatientCode]; m != nil && m.Adherence != nil {
		return &m.Adherence.ProtocolDay
	}
	return nil
}

func trendChange(lookup map[string]*model.PatientMetrics, p *model.Patient) *float64 {
	if m := lookup[p.PatientCode]; m != nil && m.Trend != nil {
		return &m.Trend.ChangePercent
	}
	return nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	default:
		return 0
	}
}

func compareIntPtr(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compareInt(*a, *b)
	}
}

func compareFloatPtr(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}
