package notes

import (
	"math"
	"testing"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0:00"},
		{name: "sub-minute", seconds: 42, expected: "0:42"},
		{name: "truncates fraction", seconds: 59.9, expected: "0:59"},
		{name: "minutes", seconds: 125, expected: "2:05"},
		{name: "just under an hour", seconds: 3599, expected: "59:59"},
		{name: "hours", seconds: 3661, expected: "1:01:01"},
		{name: "negative clamps", seconds: -5, expected: "0:00"},
		{name: "NaN clamps", seconds: math.NaN(), expected: "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.seconds); got != tt.expected {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Start: 0, Duration: 5, Text: "Hello world"},
		{Start: 5, Duration: 5, Text: "Second line"},
	}

	got, err := Annotate(segments)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	want := "[0:00] Hello world\n\n[0:05] Second line"
	if got != want {
		t.Errorf("Annotate = %q, want %q", got, want)
	}
}

func TestAnnotateExplicitTimestampWins(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Start: 90, Text: "captioned", Timestamp: "1:31"},
	}

	got, err := Annotate(segments)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	if got != "[1:31] captioned" {
		t.Errorf("expected explicit timestamp to win, got %q", got)
	}
}

func TestAnnotateEmpty(t *testing.T) {
	_, err := Annotate(nil)
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
	if !errors.IsInvalidInput(err) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	segments := []models.TranscriptSegment{{Start: 10, Text: "text"}}
	if _, err := Annotate(segments); err != nil {
		t.Fatal(err)
	}
	if segments[0].Timestamp != "" {
		t.Error("input segment was mutated")
	}
}
