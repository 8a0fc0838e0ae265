package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }
func ptrBool(b bool) *bool        { return &b }

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "—", FormatPrice(nil))
	assert.Equal(t, "$1,200", FormatPrice(ptrFloat(1200)))
	assert.Equal(t, "$99.5", FormatPrice(ptrFloat(99.5)))
}

func TestFormatReviewRate(t *testing.T) {
	assert.Equal(t, "—", FormatReviewRate(nil))
	assert.Equal(t, "4/5", FormatReviewRate(ptrFloat(4)))
	assert.Equal(t, "4.5/5", FormatReviewRate(ptrFloat(4.5)))
	assert.Equal(t, "★★★★☆", FormatRatingStars(ptrFloat(4)))
	assert.Equal(t, "★★★★★", FormatRatingStars(ptrFloat(9)))
}

func TestFormatCountsAndFlags(t *testing.T) {
	assert.Equal(t, "12,345", FormatCount(ptrInt(12345)))
	assert.Equal(t, "—", FormatCount(nil))
	assert.Equal(t, "1 day/yr", FormatAvailability(ptrInt(1)))
	assert.Equal(t, "200 days/yr", FormatAvailability(ptrInt(200)))
	assert.Equal(t, "Yes", FormatFlag(ptrBool(true)))
	assert.Equal(t, "No", FormatFlag(ptrBool(false)))
	assert.Equal(t, "–", FormatFlagSymbol(nil))
}

func TestFormatText(t *testing.T) {
	assert.Equal(t, "No description available.", FormatHouseRules("  "))
	assert.Equal(t, "Quiet hours", FormatHouseRules("Quiet hours"))
	assert.Equal(t, "(blank)", FormatCategory(""))
	assert.Equal(t, "—", FormatStat(math.NaN()))
	assert.Equal(t, "1,234.57", FormatStat(1234.567))
	assert.Equal(t, "Hello...", TruncateString("Hello, world", 8))
}

func TestParsePriceInput(t *testing.T) {
	v, err := ParsePriceInput(" $1,200 ")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, v)

	v, err = ParsePriceInput("99.5")
	require.NoError(t, err)
	assert.Equal(t, 99.5, v)

	for _, bad := range []string{"", "cheap", "-5", "NaN"} {
		_, err := ParsePriceInput(bad)
		assert.Error(t, err, bad)
	}
}
