// Package ranking estimates deal values for brand matches and orders them
// for presentation.
package ranking

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// basePer1K is the baseline rate in dollars per thousand followers.
	basePer1K = 5.0
	// defaultFollowers is assumed when the follower count is unreadable.
	defaultFollowers = 10_000
	minDealValue     = 100
	roundTo          = 50
)

var followerRe = regexp.MustCompile(`^([\d.]+)\s*([KMB])?$`)

var printer = message.NewPrinter(language.English)

// ValueRange is an estimated deal value in whole dollars.
type ValueRange struct {
	Low  int
	High int
}

// String formats the range as "$1,000 – $2,000".
func (v ValueRange) String() string {
	return printer.Sprintf("$%d – $%d", v.Low, v.High)
}

// ParseFollowerCount reads counts such as "340K", "1.2M" or "12,500".
func ParseFollowerCount(s string) float64 {
	cleaned := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	m := followerRe.FindStringSubmatch(cleaned)
	if m == nil {
		return defaultFollowers
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return defaultFollowers
	}
	switch m[2] {
	case "K":
		return value * 1_000
	case "M":
		return value * 1_000_000
	case "B":
		return value * 1_000_000_000
	}
	return value
}

func fitMultiplier(fitScore int) float64 {
	switch {
	case fitScore >= 80:
		return 1.5
	case fitScore >= 60:
		return 1.0
	default:
		return 0.6
	}
}

// Estimate computes the pre-pitch deal range for a brand given the fit
// score and the creator's follower count. The range spans 60% to 140% of
// the raw value, rounded to $50, with a $100 floor and at least $100 width.
func Estimate(fitScore int, followers string) ValueRange {
	raw := ParseFollowerCount(followers) / 1000 * basePer1K * fitMultiplier(fitScore)

	low := int(math.Round(raw*0.6/roundTo)) * roundTo
	if low < minDealValue {
		low = minDealValue
	}
	high := int(math.Round(raw*1.4/roundTo)) * roundTo
	if high < low+100 {
		high = low + 100
	}
	return ValueRange{Low: low, High: high}
}

// EstimateValue is Estimate formatted for display.
func EstimateValue(fitScore int, followers string) string {
	return Estimate(fitScore, followers).String()
}
