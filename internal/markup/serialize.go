package markup

import "strings"

// Serialize substitutes id and display into template in a single pass, so
// neither value is re-scanned for placeholders.
func Serialize(template, id, display string) string {
	return strings.NewReplacer(
		PlaceholderID, id,
		PlaceholderDisplay, display,
	).Replace(template)
}
