package quotes

import "strings"

const (
	UrbanNoEntryNote   = "Urban no-entry restrictions likely during peak hours; plan entry/exit accordingly."
	HighwayNoEntryNote = "No-entry restrictions unlikely on highway segments."
)

var noEntryMetros = []string{"mumbai", "delhi", "kolkata", "chennai", "bengaluru", "bangalore", "hyderabad", "pune"}

// NoEntryNote flags trips touching a metro with truck entry restrictions.
// It is a plain substring check on the place text.
func NoEntryNote(pickup, dropoff string) string {
	text := strings.ToLower(pickup + " " + dropoff)
	for _, m := range noEntryMetros {
		if strings.Contains(text, m) {
			return UrbanNoEntryNote
		}
	}
	return HighwayNoEntryNote
}
