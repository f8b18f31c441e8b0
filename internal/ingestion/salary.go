package ingestion

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryNumber matches 1.500.000, 1,500,000 and bare digit runs
var salaryNumber = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+|\d+`)

// ParseSalary returns the largest amount mentioned in a free-text salary, or 0 when none.
// Thousands separators (dot or comma) are removed.
func ParseSalary(raw string) float64 {
	if strings.TrimSpace(raw) == "" {
		return 0
	}

	best := 0.0
	for _, m := range salaryNumber.FindAllString(raw, -1) {
		digits := strings.NewReplacer(".", "", ",", "").Replace(m)
		n, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}
