package engine

import (
	"regexp"
	"strings"

	"github.com/excalibur-systems/maintenance-api/internal/models"
)

// AwaitingPartsTag is appended to observations while a record waits on parts.
const AwaitingPartsTag = "AGUARDANDO PEÇA"

var (
	hoursTagPattern      = regexp.MustCompile(`(?i)TOTAL DE HORAS: [\d.]+H`)
	hoursTagValuePattern = regexp.MustCompile(`(?i)TOTAL DE HORAS: ([\d.]+)H`)
)

// HoursTag formats the machine-generated total-hours tag for a value.
func HoursTag(total string) string {
	return "TOTAL DE HORAS: " + total + "H"
}

// ExtractHoursTag returns the numeric portion of an existing total-hours tag
// inside the observations text, if present.
func ExtractHoursTag(observations string) (string, bool) {
	m := hoursTagValuePattern.FindStringSubmatch(observations)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// UpsertTags applies the observation automation rules to free text:
//
//   - while awaiting parts, the AGUARDANDO PEÇA tag is appended once;
//   - an existing total-hours tag is refreshed with the new value regardless
//     of status;
//   - on completion a total-hours tag is appended if none exists yet.
//
// Matching is case-insensitive, tags join existing text with " | ", and the
// final text is upper-cased in full. Re-running with unchanged inputs leaves
// the text untouched.
func UpsertTags(observations string, status models.Status, total string) string {
	out := observations

	if status == models.StatusAwaitingParts && !containsFold(out, AwaitingPartsTag) {
		out = appendTag(out, AwaitingPartsTag)
	}

	tag := HoursTag(total)
	if hoursTagPattern.MatchString(out) {
		out = hoursTagPattern.ReplaceAllString(out, tag)
	} else if status == models.StatusCompleted {
		out = appendTag(out, tag)
	}

	return strings.ToUpper(out)
}

func appendTag(text, tag string) string {
	if text == "" {
		return tag
	}
	return text + " | " + tag
}

func containsFold(text, tag string) bool {
	return strings.Contains(strings.ToUpper(text), strings.ToUpper(tag))
}
