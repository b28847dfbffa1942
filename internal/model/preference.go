package model

// ColumnPreferences is the flat set of column-visibility flags the
// dashboard persists per user. Serialized as a single JSON blob under a
// fixed key; last write wins.
type ColumnPreferences map[string]bool

// DefaultColumnPreferences returns the columns shown before a user has
// customized anything.
func DefaultColumnPreferences() ColumnPreferences {
	return ColumnPreferences{
		"patient_code": true,
		"name":         true,
		"age":          true,
		"sessions":     true,
		"last_session": true,
		"adherence":    true,
		"trend":        true,
		"status":       true,
		"room":         false,
		"diagnosis":    false,
	}
}
