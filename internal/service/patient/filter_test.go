package patient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialdash/patient-api/internal/model"
)

func makePatient(code, first, last string, active bool) *model.Patient {
	return &model.Patient{
		PatientCode: code,
		FirstName:   first,
		LastName:    last,
		Active:      active,
	}
}

func codesOf(patients []*model.Patient) []string {
	codes := make([]string, len(patients))
	for i, p := range patients {
		codes[i] = p.PatientCode
	}
	return codes
}

func TestFilterAndSort_SearchMatchesCodePrefix(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P001", "Anna", "Berg", true),
		makePatient("Q010", "Carl", "Dahl", true),
		makePatient("P002", "Eva", "Falk", true),
	}

	out := FilterAndSort(patients, Filters{SearchTerm: "P00"}, SortByCode, SortAscending, nil)
	assert.Equal(t, []string{"P001", "P002"}, codesOf(out))
}

func TestFilterAndSort_SearchMatchesName(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P001", "Anna", "Berg", true),
		makePatient("P002", "Eva", "Falk", true),
	}

	out := FilterAndSort(patients, Filters{SearchTerm: "berg"}, SortByCode, SortAscending, nil)
	assert.Equal(t, []string{"P001"}, codesOf(out))

	// display name spans first and last name
	out = FilterAndSort(patients, Filters{SearchTerm: "eva falk"}, SortByCode, SortAscending, nil)
	assert.Equal(t, []string{"P002"}, codesOf(out))
}

func TestFilterAndSort_InactiveHiddenByDefault(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P001", "Anna", "Berg", true),
		makePatient("P002", "Eva", "Falk", false),
	}

	out := FilterAndSort(patients, Filters{}, SortByCode, SortAscending, nil)
	assert.Equal(t, []string{"P001"}, codesOf(out))

	out = FilterAndSort(patients, Filters{ShowInactive: true}, SortByCode, SortAscending, nil)
	assert.Equal(t, []string{"P001", "P002"}, codesOf(out))
}

func TestFilterAndSort_NilLastSessionRanksLowest(t *testing.T) {
	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	a := makePatient("P001", "Anna", "Berg", true)
	a.LastSession = &t2
	b := makePatient("P002", "Eva", "Falk", true)
	c := makePatient("P003", "Carl", "Dahl", true)
	c.LastSession = &t1

	patients := []*model.Patient{a, b, c}

	asc := FilterAndSort(patients, Filters{}, SortByLastSession, SortAscending, nil)
	assert.Equal(t, []string{"P002", "P003", "P001"}, codesOf(asc))

	desc := FilterAndSort(patients, Filters{}, SortByLastSession, SortDescending, nil)
	assert.Equal(t, []string{"P001", "P003", "P002"}, codesOf(desc))
}

func TestFilterAndSort_AdherenceUsesLookup(t *testing.T) {
	high, low := 92, 45
	lookup := map[string]*model.PatientMetrics{
		"P001": {Adherence: &model.AdherenceRecord{AdherenceScore: &low}},
		"P003": {Adherence: &model.AdherenceRecord{AdherenceScore: &high}},
	}

	patients := []*model.Patient{
		makePatient("P001", "Anna", "Berg", true),
		makePatient("P002", "Eva", "Falk", true), // no metrics entry
		makePatient("P003", "Carl", "Dahl", true),
	}

	desc := FilterAndSort(patients, Filters{}, SortByAdherence, SortDescending, lookup)
	assert.Equal(t, []string{"P003", "P001", "P002"}, codesOf(desc))
}

func TestFilterAndSort_StableForEqualKeys(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P003", "Anna", "Berg", true),
		makePatient("P001", "Anna", "Berg", true),
		makePatient("P002", "Anna", "Berg", true),
	}

	out := FilterAndSort(patients, Filters{}, SortByName, SortAscending, nil)
	assert.Equal(t, []string{"P003", "P001", "P002"}, codesOf(out))
}

func TestFilterAndSort_DoesNotMutateInput(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P002", "Eva", "Falk", true),
		makePatient("P001", "Anna", "Berg", true),
	}

	out := FilterAndSort(patients, Filters{}, SortByCode, SortAscending, nil)
	require.Equal(t, []string{"P001", "P002"}, codesOf(out))
	assert.Equal(t, []string{"P002", "P001"}, codesOf(patients))
}

func TestFilterAndSort_Idempotent(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P002", "Eva", "Falk", true),
		makePatient("P001", "Anna", "Berg", true),
		makePatient("P003", "Carl", "Dahl", false),
	}

	once := FilterAndSort(patients, Filters{ShowInactive: true}, SortByName, SortAscending, nil)
	twice := FilterAndSort(once, Filters{ShowInactive: true}, SortByName, SortAscending, nil)
	assert.Equal(t, codesOf(once), codesOf(twice))
}

func TestFilterAndSort_UnknownFieldFallsBackToCode(t *testing.T) {
	patients := []*model.Patient{
		makePatient("P002", "Eva", "Falk", true),
		makePatient("P001", "Anna", "Berg", true),
	}

	out := FilterAndSort(patients, Filters{}, SortField("bogus"), SortAscending, nil)
	assert.Equal(t, []string{"P001", "P002"}, codesOf(out))
}
