package waqi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// aqi decodes the WAQI "aqi" field, which arrives as a JSON string ("42",
// or "-" when the station has no reading) or occasionally as a number.
// Strings must hold an integer; numbers are truncated toward zero. Anything
// else leaves valid false and the station is skipped.
type aqi struct {
	value int
	valid bool
}

func (a *aqi) UnmarshalJSON(b []byte) error {
	*a = aqi{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*a = aqi{value: n, valid: true}
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*a = aqi{value: int(f), valid: true}
	return nil
}
