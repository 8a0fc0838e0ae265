package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingValues are the cell spellings treated as an absent value.
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "<nil>", "null", "None"}

const gotaNaN = "NaN"

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	for _, m := range missingValues {
		if s == m {
			return true
		}
	}
	return false
}

func parseText(s string) string {
	if isMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

// parsePrice accepts plain numbers and currency formatted values like "$1,234 ".
func parsePrice(s string) (*float64, error) {
	if isMissing(s) {
		return nil, nil
	}
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	v, err := parseFinite(clean)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("negative price")
	}
	return &v, nil
}

func parseFloat(s string) (*float64, error) {
	if isMissing(s) {
		return nil, nil
	}
	v, err := parseFinite(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseCount accepts integral values, including "12.0" as written by tools that
// store integer columns with gaps as floats.
func parseCount(s string) (*int, error) {
	if isMissing(s) {
		return nil, nil
	}
	v, err := parseFinite(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if v != math.Trunc(v) {
		return nil, fmt.Errorf("not an integer")
	}
	if v < 0 {
		return nil, fmt.Errorf("negative count")
	}
	n := int(v)
	return &n, nil
}

func parseAvailability(s string) (*int, error) {
	n, err := parseCount(s)
	if err != nil || n == nil {
		return n, err
	}
	if *n > 365 {
		return nil, fmt.Errorf("availability outside 0-365")
	}
	return n, nil
}

func parseBoolLike(s string) (*bool, error) {
	if isMissing(s) {
		return nil, nil
	}
	var b bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1", "1.0":
		b = true
	case "false", "f", "no", "n", "0", "0.0":
		b = false
	default:
		return nil, fmt.Errorf("not a boolean")
	}
	return &b, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}
