// Package avatar derives display initials and a deterministic color
// from patient identifiers, so the dashboard renders the same avatar
// for the same patient on every load.
package avatar

import (
	"hash/fnv"
	"strings"
)

// palette matches the dashboard avatar colors.
var palette = []string{
	"#1abc9c",
	"#2ecc71",
	"#3498db",
	"#9b59b6",
	"#34495e",
	"#f39c12",
	"#d35400",
	"#c0392b",
	"#7f8c8d",
	"#16a085",
}

// Initials returns up to two uppercase initials for a display name.
// Falls back to the first two characters of the name when it is a
// single word (e.g. a bare patient code).
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}

	words := strings.Fields(name)
	if len(words) >= 2 {
		return strings.ToUpper(string([]rune(words[0])[0]) + string([]rune(words[len(words)-1])[0]))
	}

	runes := []rune(words[0])
	if len(runes) == 1 {
		return strings.ToUpper(string(runes[0]))
	}
	return strings.ToUpper(string(runes[:2]))
}

// Color returns a deterministic palette color for a patient code.
func Color(code string) string {
	h := fnv.New32a()
	h.Write([]byte(code))
	return palette[h.Sum32()%uint32(len(palette))]
}
