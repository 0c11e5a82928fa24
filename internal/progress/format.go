package progress

import (
	"fmt"
	"math"
	"strconv"
)

// NotAvailable is rendered for ungraded work and undefined averages; never "0".
const NotAvailable = "not available"

// Round rounds half away from zero to the given number of decimal places.
// v*10^places is first reduced to 15 significant digits so that a value written as
// 2.675 rounds to 2.68 even though its binary form is slightly below it.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	x := v * p
	if short, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', 15, 64), 64); err == nil {
		x = short
	}
	return math.Round(x) / p
}

// AssessmentPercentage returns score/totalMarks*100 rounded to one decimal.
// ok is false for an ungraded score or a non-positive total.
func AssessmentPercentage(score *float64, totalMarks float64) (pct float64, ok bool) {
	if score == nil || !(totalMarks > 0) {
		return 0, false
	}
	return Round(*score/totalMarks*100, 1), true
}

// FormatPercentage renders a single assessment result, e.g. "85.5%".
func FormatPercentage(score *float64, totalMarks float64) string {
	pct, ok := AssessmentPercentage(score, totalMarks)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", pct)
}
