package session

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/storage"
)

// metadata keys the recording devices embed at upload time. S3 folds
// user metadata keys to lowercase.
const (
	metaPatientCode = "patient-code"
	metaSessionDate = "session-date"
)

// filename timestamp layouts, tried in order per segment.
var nameLayouts = []string{
	"20060102T150405",
	"20060102-150405",
	"2006-01-02",
	"20060102",
}

// matchesPatient reports whether a stored file belongs to the patient:
// either the embedded metadata names the code, or the filename carries
// it as its first underscore-separated segment.
func matchesPatient(f storage.SessionFile, patientCode string) bool {
	if code, ok := f.Metadata[metaPatientCode]; ok {
		return strings.EqualFold(code, patientCode)
	}

	base := path.Base(f.Key)
	segments := strings.SplitN(base, "_", 2)
	return strings.EqualFold(segments[0], patientCode)
}

// resolveDate picks the effective session date by priority: the matching
// session record's date, then the device metadata timestamp, then a
// filename-embedded timestamp, then nil. Never fails on a malformed
// name.
func resolveDate(f storage.SessionFile, rec *model.SessionRecord) *time.Time {
	if rec != nil && rec.SessionDate != nil {
		return rec.SessionDate
	}

	if raw, ok := f.Metadata[metaSessionDate]; ok {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t
			}
		}
	}

	if t := timestampFromKey(f.Key); t != nil {
		return t
	}

	return nil
}

// timestampFromKey scans the underscore-separated segments of the file
// name (extension stripped) for a parseable timestamp.
func timestampFromKey(key string) *time.Time {
	base := path.Base(key)
	base = strings.TrimSuffix(base, path.Ext(base))

	for _, segment := range strings.Split(base, "_") {
		for _, layout := range nameLayouts {
			if t, err := time.Parse(layout, segment); err == nil {
				return &t
			}
		}
	}
	return nil
}

// sortRows orders rows by resolved date. Rows without a resolvable date
// go to the end regardless of direction; ties keep input order.
func sortRows(rows []model.SessionRow, dir SortDirection) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].SessionDate, rows[j].SessionDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case dir == SortAscending:
			return a.Before(*b)
		default:
			return a.After(*b)
		}
	})
}

// paginate slices a fixed-size page out of the ordered rows. Pages are
// 1-based; out-of-range pages yield an empty row set with the total
// intact.
func paginate(rows []model.SessionRow, page, pageSize int) *model.SessionPage {
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	return &model.SessionPage{
		Rows:     rows[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    len(rows),
	}
}
