package document

import "strings"

// JoinBulk renders a bulk list field as a single editable text line
func JoinBulk(values []string) string {
	return strings.Join(values, ", ")
}

// SplitBulk reparses an edited bulk text line back into a list. Every comma
// splits and segments are not trimmed, matching what JoinBulk produced only
// for values without embedded commas. The round trip is lossy for values
// that legitimately contain a comma.
func SplitBulk(text string) []string {
	return strings.Split(text, ",")
}
