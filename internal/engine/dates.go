package engine

import "regexp"

var (
	brDatePattern      = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	brShortDatePattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// FormatDateBR formats a YYYY-MM-DD date string as DD/MM/YYYY for display.
// Inputs already in DD/MM/YYYY or DD/MM form pass through, anything else is
// returned as is, and empty input yields "N/A".
func FormatDateBR(date string) string {
	if date == "" {
		return "N/A"
	}
	if brDatePattern.MatchString(date) || brShortDatePattern.MatchString(date) {
		return date
	}
	if m := isoDatePattern.FindStringSubmatch(date); m != nil {
		return m[3] + "/" + m[2] + "/" + m[1]
	}
	return date
}

// NormalizeISO normalizes a date string to YYYY-MM-DD for storage and
// calculation. DD/MM/YYYY is converted; anything else passes through.
func NormalizeISO(date string) string {
	if date == "" {
		return ""
	}
	if m := brDatePattern.FindStringSubmatch(date); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return date
}
