package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyAmount is returned for blank amount input.
var ErrEmptyAmount = errors.New("amount is empty")

// ParseAmount reads a won amount written as digits with optional commas,
// or with 억/만 units: "780,000,000", "7억 8000만", "1.5억", "5000만원".
func ParseAmount(s string) (float64, error) {
	clean := strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(s))
	clean = strings.TrimSuffix(clean, "원")
	if clean == "" {
		return 0, ErrEmptyAmount
	}

	if !strings.ContainsAny(clean, "억만") {
		v, ok := parseDecimal(clean)
		if !ok {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		return v, nil
	}

	var total float64
	rest := clean
	for _, unit := range []struct {
		mark  string
		scale float64
	}{{"억", eok}, {"만", man}} {
		head, tail, ok := strings.Cut(rest, unit.mark)
		if !ok {
			continue
		}
		v, ok := parseDecimal(head)
		if !ok {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		total += v * unit.scale
		rest = tail
	}
	if rest != "" {
		v, ok := parseDecimal(rest)
		if !ok {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		total += v
	}
	if math.IsInf(total, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return total, nil
}

// parseDecimal accepts plain non-negative decimals only: digits with at
// most one point. Signs, exponents, NaN and Inf are rejected.
func parseDecimal(s string) (float64, bool) {
	if s == "" || s == "." {
		return 0, false
	}
	dots := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			dots++
		case c < '0' || c > '9':
			return 0, false
		}
	}
	if dots > 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseAmounts reads "+"-separated amounts, one value per term.
func ParseAmounts(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, "+")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := ParseAmount(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
