package notes

import (
	"fmt"
	"math"
	"strings"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
)

// FormatTimestamp renders a second offset as M:SS, or H:MM:SS once the
// video passes the hour mark. Sub-second values are truncated.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		return "0:00"
	}

	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Annotate renders the ordered segment list as one string with a
// bracketed timestamp tag per segment, segments separated by a blank
// line. A segment's explicit Timestamp field takes precedence over the
// value computed from Start. The input is not mutated.
func Annotate(segments []models.TranscriptSegment) (string, error) {
	const op = "notes.Annotate"

	if len(segments) == 0 {
		return "", errors.InvalidInput(op, nil, "No transcript provided")
	}

	var b strings.Builder
	for i, seg := range segments {
		ts := seg.Timestamp
		if ts == "" {
			ts = FormatTimestamp(seg.Start)
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(ts)
		b.WriteString("] ")
		b.WriteString(seg.Text)
	}

	return b.String(), nil
}
