package notes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akshatgupta/notetube/models"
)

// Chunk sizes are character counts, not token counts; downstream token
// estimation assumes roughly 4 characters per token. Sized to keep most
// long videos in a single chunk.
const (
	chunkSizeBrief    = 80000
	chunkSizeMedium   = 70000
	chunkSizeDetailed = 60000

	// A chunk is flushed once it passes this share of the maximum.
	softFillRatio = 0.8

	// A gap in the transcript larger than this starts a new chunk once
	// the current one is at least half full.
	sectionGapSeconds = 300
)

var timestampTag = regexp.MustCompile(`\[(\d+):(\d+)(?::(\d+))?\]`)

// MaxChunkSize returns the character budget for one completion call at
// the given summary depth.
func MaxChunkSize(depth models.SummaryDepth) int {
	switch depth {
	case models.DepthBrief:
		return chunkSizeBrief
	case models.DepthDetailed:
		return chunkSizeDetailed
	default:
		return chunkSizeMedium
	}
}

// Split partitions annotated transcript text into ordered chunks bounded
// by the depth's maximum size. Short texts come back as a single chunk.
// Long texts are split along timestamp structure when possible, falling
// back to paragraph and then sentence boundaries. Chunk order matches
// text order and no chunk is empty.
func Split(text string, depth models.SummaryDepth) []string {
	maxSize := MaxChunkSize(depth)

	if len(text) <= maxSize {
		return []string{text}
	}

	if chunks := splitByTime(text, maxSize); len(chunks) > 1 {
		return chunks
	}

	return splitByParagraph(text, maxSize)
}

// splitByTime scans blank-line-delimited units, tracking the last seen
// timestamp tag, and starts a new chunk at large time gaps or once the
// running chunk is mostly full. Returns a single-element slice when the
// text has no useful timestamp structure.
func splitByTime(text string, maxSize int) []string {
	var chunks []string
	current := ""
	lastSeen := 0

	for _, line := range strings.Split(text, "\n\n") {
		if m := timestampTag.FindStringSubmatch(line); m != nil {
			t := parseTimestampMatch(m)

			if len(current) > int(softFillRatio*float64(maxSize)) ||
				(t-lastSeen > sectionGapSeconds && len(current) > maxSize/2) {
				chunks = append(chunks, current)
				current = line
			} else {
				current = appendUnit(current, line, "\n\n")
			}
			lastSeen = t
		} else {
			current = appendUnit(current, line, "\n\n")
		}

		// Hard cutoff regardless of timestamp structure.
		if len(current) > maxSize {
			chunks = append(chunks, current)
			current = ""
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	if len(chunks) > 1 {
		return chunks
	}
	return []string{text}
}

// splitByParagraph accumulates paragraphs up to the size limit, splitting
// any single oversize paragraph by sentence boundary.
func splitByParagraph(text string, maxSize int) []string {
	var chunks []string
	current := ""

	for _, para := range strings.Split(text, "\n\n") {
		if len(current)+len(para) <= maxSize {
			current = appendUnit(current, para, "\n\n")
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}

		if len(para) <= maxSize {
			current = para
			continue
		}

		for _, sentence := range splitSentences(para) {
			if len(current)+len(sentence) <= maxSize {
				current = appendUnit(current, sentence, " ")
			} else {
				if current != "" {
					chunks = append(chunks, current)
				}
				current = sentence
			}
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// splitSentences breaks text after '.', '!' or '?' followed by
// whitespace, dropping the separating whitespace.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if isSpace(text[i+1]) {
				out = append(out, text[start:i+1])
				j := i + 1
				for j < len(text) && isSpace(text[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func appendUnit(current, unit, sep string) string {
	if current == "" {
		return unit
	}
	return current + sep + unit
}

// parseTimestampMatch converts a matched tag to seconds. Two fields are
// minutes:seconds; three are hours:minutes:seconds.
func parseTimestampMatch(m []string) int {
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	if m[3] != "" {
		c, _ := strconv.Atoi(m[3])
		return a*3600 + b*60 + c
	}
	return a*60 + b
}
