package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatPrice formats a price as "$1,200" or "—" if nil.
func FormatPrice(price *float64) string {
	if price == nil {
		return "—"
	}
	return FormatPriceValue(*price)
}

// FormatPriceValue formats a price with thousands separators and at most two decimals.
func FormatPriceValue(v float64) string {
	return "$" + humanize.CommafWithDigits(round2(v), 2)
}

// FormatReviewRate formats a review rate as "4.5/5" or "—" if nil.
func FormatReviewRate(rate *float64) string {
	if rate == nil {
		return "—"
	}
	return formatRatingNumber(*rate) + "/5"
}

// FormatRatingStars formats a 1-5 review rate as stars (e.g., "★★★★☆").
func FormatRatingStars(rate *float64) string {
	if rate == nil {
		return "—"
	}
	stars := int(math.Round(*rate))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// FormatCount formats an optional count with thousands separators.
func FormatCount(n *int) string {
	if n == nil {
		return "—"
	}
	return FormatInt(*n)
}

// FormatInt formats n with thousands separators.
func FormatInt(n int) string {
	return humanize.Comma(int64(n))
}

// FormatAvailability formats days available per year.
func FormatAvailability(days *int) string {
	if days == nil {
		return "—"
	}
	if *days == 1 {
		return "1 day/yr"
	}
	return fmt.Sprintf("%d days/yr", *days)
}

// FormatFlag formats an optional house-rule flag.
func FormatFlag(flag *bool) string {
	if flag == nil {
		return "—"
	}
	if *flag {
		return "Yes"
	}
	return "No"
}

// FormatFlagSymbol formats a flag as symbols: ✓, ✗, or –
func FormatFlagSymbol(flag *bool) string {
	if flag == nil {
		return "–"
	}
	if *flag {
		return "✓"
	}
	return "✗"
}

// FormatHouseRules returns the rules text or a placeholder when blank.
func FormatHouseRules(rules string) string {
	rules = strings.TrimSpace(rules)
	if rules == "" {
		return "No description available."
	}
	return rules
}

// FormatCategory shows blank category values as "(blank)".
func FormatCategory(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(blank)"
	}
	return v
}

// FormatStat formats a summary statistic; NaN renders as "—".
func FormatStat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	return humanize.CommafWithDigits(round2(v), 2)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatRatingNumber(v float64) string {
	// Keep one decimal at most, but avoid trailing .0 for whole values.
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// ParsePriceInput parses user input like "1200", "$1,200" or " 99.5 ".
// Empty input is rejected.
func ParsePriceInput(input string) (float64, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("price is required")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid price %q", input)
	}
	if v < 0 {
		return 0, fmt.Errorf("price cannot be negative")
	}
	return v, nil
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
