package notes

import (
	"fmt"
	"strings"
	"testing"

	"github.com/akshatgupta/notetube/models"
)

func TestMaxChunkSize(t *testing.T) {
	tests := []struct {
		depth    models.SummaryDepth
		expected int
	}{
		{depth: models.DepthBrief, expected: 80000},
		{depth: models.DepthMedium, expected: 70000},
		{depth: models.DepthDetailed, expected: 60000},
		{depth: models.SummaryDepth("unknown"), expected: 70000},
	}

	for _, tt := range tests {
		t.Run(string(tt.depth), func(t *testing.T) {
			if got := MaxChunkSize(tt.depth); got != tt.expected {
				t.Errorf("MaxChunkSize(%q) = %d, want %d", tt.depth, got, tt.expected)
			}
		})
	}
}

// buildAnnotated synthesizes annotated transcript text: one timestamped
// unit every interval seconds until the target length is reached.
func buildAnnotated(targetLen, intervalSeconds int) string {
	var b strings.Builder
	line := strings.Repeat("lecture content word ", 10)
	seconds := 0
	for b.Len() < targetLen {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s", FormatTimestamp(float64(seconds)), line)
		seconds += intervalSeconds
	}
	return b.String()
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	text := buildAnnotated(5000, 10)

	chunks := Split(text, models.DepthMedium)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Error("single chunk must equal the full text")
	}
}

func TestSplitExactlyAtLimit(t *testing.T) {
	text := strings.Repeat("a", MaxChunkSize(models.DepthMedium))

	chunks := Split(text, models.DepthMedium)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk at exact limit, got %d", len(chunks))
	}
}

func TestSplitLongTranscriptTimeBased(t *testing.T) {
	text := buildAnnotated(150000, 10)

	chunks := Split(text, models.DepthMedium)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for 150000 chars at medium depth, got %d", len(chunks))
	}

	maxSize := MaxChunkSize(models.DepthMedium)
	longestUnit := 0
	for _, unit := range strings.Split(text, "\n\n") {
		if len(unit) > longestUnit {
			longestUnit = len(unit)
		}
	}

	for i, chunk := range chunks {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
		// The hard cutoff can overshoot by at most the unit that
		// triggered it (plus its separator).
		if len(chunk) > maxSize+longestUnit+2 {
			t.Errorf("chunk %d length %d exceeds tolerance", i, len(chunk))
		}
	}

	if got := strings.Join(chunks, "\n\n"); got != text {
		t.Error("concatenated chunks must reproduce the original text")
	}
}

func TestSplitTimeGapStartsNewChunk(t *testing.T) {
	// Two halves separated by a >300s gap; each half is beyond 50% of
	// the detailed limit, so the gap should force a boundary.
	half := 35000
	first := buildAnnotated(half, 10)
	var b strings.Builder
	b.WriteString(first)
	line := strings.Repeat("second half content ", 10)
	seconds := 7200
	for b.Len() < half*2+10000 {
		fmt.Fprintf(&b, "\n\n[%s] %s", FormatTimestamp(float64(seconds)), line)
		seconds += 10
	}
	text := b.String()

	chunks := Split(text, models.DepthDetailed)
	if len(chunks) < 2 {
		t.Fatalf("expected a gap-induced split, got %d chunks", len(chunks))
	}
	if got := strings.Join(chunks, "\n\n"); got != text {
		t.Error("concatenated chunks must reproduce the original text")
	}
}

func TestSplitByParagraph(t *testing.T) {
	para := strings.Repeat("plain prose without any tags ", 40)
	var paras []string
	for i := 0; i < 1000; i++ {
		paras = append(paras, para)
	}
	text := strings.Join(paras, "\n\n")

	chunks := splitByParagraph(text, MaxChunkSize(models.DepthMedium))
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	maxSize := MaxChunkSize(models.DepthMedium)
	for i, chunk := range chunks {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if len(chunk) > maxSize {
			t.Errorf("paragraph chunk %d length %d exceeds max %d", i, len(chunk), maxSize)
		}
	}

	if stripWhitespace(strings.Join(chunks, "")) != stripWhitespace(text) {
		t.Error("paragraph splitting dropped content")
	}
}

func TestSplitOversizeParagraphBySentence(t *testing.T) {
	sentence := "This sentence repeats to build one enormous paragraph. "
	para := strings.TrimSpace(strings.Repeat(sentence, 3000))

	chunks := Split(para, models.DepthDetailed)
	if len(chunks) < 2 {
		t.Fatalf("expected sentence-level split, got %d chunks", len(chunks))
	}

	maxSize := MaxChunkSize(models.DepthDetailed)
	for i, chunk := range chunks {
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if len(chunk) > maxSize {
			t.Errorf("sentence chunk %d length %d exceeds max %d", i, len(chunk), maxSize)
		}
	}

	if stripWhitespace(strings.Join(chunks, "")) != stripWhitespace(para) {
		t.Error("sentence splitting dropped content")
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Four")
	want := []string{"One.", "Two!", "Three?", "Four"}

	if len(got) != len(want) {
		t.Fatalf("splitSentences returned %d parts, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesNoBoundary(t *testing.T) {
	got := splitSentences("no terminal punctuation here")
	if len(got) != 1 || got[0] != "no terminal punctuation here" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestParseTimestampMatch(t *testing.T) {
	tests := []struct {
		tag      string
		expected int
	}{
		{tag: "[0:00]", expected: 0},
		{tag: "[2:05]", expected: 125},
		{tag: "[59:59]", expected: 3599},
		{tag: "[1:01:01]", expected: 3661},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			m := timestampTag.FindStringSubmatch(tt.tag)
			if m == nil {
				t.Fatalf("tag %q did not match", tt.tag)
			}
			if got := parseTimestampMatch(m); got != tt.expected {
				t.Errorf("parseTimestampMatch(%q) = %d, want %d", tt.tag, got, tt.expected)
			}
		})
	}
}
