package domain

import (
	"sort"
	"strings"
)

// UnknownStationName is shown for stations that arrive without a name.
const UnknownStationName = "(unknown)"

// RankStations returns the station table: highest AQI first, ties kept in
// input order. A non-blank query keeps only stations whose name contains it,
// ignoring case and surrounding whitespace. The input is not modified.
func RankStations(samples []Sample, query string) []Sample {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Name == "" {
			s.Name = UnknownStationName
		}
		if query != "" && !strings.Contains(strings.ToLower(s.Name), query) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AQI > out[j].AQI
	})
	return out
}
