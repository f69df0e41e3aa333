package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// gridParams reads rows, cols and k. Missing, non-numeric and zero values
// fall back to the defaults, the way the map page's parseInt(x) || default
// does; values that parse but are out of range are rejected.
func gridParams(q url.Values, def domain.GridParams) (domain.GridParams, error) {
	p := domain.GridParams{
		Rows: intParam(q, "rows", def.Rows),
		Cols: intParam(q, "cols", def.Cols),
		K:    intParam(q, "k", def.K),
	}
	if err := p.Validate(); err != nil {
		return domain.GridParams{}, err
	}
	return p, nil
}

func intParam(q url.Values, name string, def int) int {
	if n, ok := leadingInt(q.Get(name)); ok && n != 0 {
		return n
	}
	return def
}

// leadingInt parses an optional sign and the digits that follow it,
// ignoring leading whitespace and anything after the digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// coordParam reads a required finite float.
func coordParam(q url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrInvalidParameter, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", domain.ErrInvalidParameter, name, raw)
	}
	return v, nil
}

// optionalFloat reads a float that may be absent.
func optionalFloat(q url.Values, name string) (*float64, error) {
	if strings.TrimSpace(q.Get(name)) == "" {
		return nil, nil
	}
	v, err := coordParam(q, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
