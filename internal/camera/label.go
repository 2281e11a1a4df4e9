package camera

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var labelCaser = cases.Title(language.English)

// NormalizeLabel tidies a kernel-reported card name for display: collapses
// whitespace, strips the bus suffix some drivers append after a colon, and
// title-cases fully lowercased names. Mixed-case vendor strings are kept as
// reported.
func NormalizeLabel(raw string) string {
	label := strings.Join(strings.Fields(raw), " ")
	if idx := strings.Index(label, ":"); idx > 0 {
		label = strings.TrimSpace(label[:idx])
	}
	if label == "" {
		return label
	}
	if label == strings.ToLower(label) {
		label = labelCaser.String(label)
	}
	return label
}
