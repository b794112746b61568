package export

import (
	"strings"
	"testing"
	"time"

	"github.com/akshatgupta/notetube/models"
)

func sampleNote() *models.Note {
	return &models.Note{
		VideoID: "dQw4w9WgXcQ",
		Notes: "# Main Topic\n\n" +
			"Some **bold** and *italic* text with a [link](https://example.com).\n\n" +
			"- [0:15] First point\n" +
			"- [1:02:03] Second point\n\n" +
			"1. Step one\n",
		VideoInfo: models.VideoInfo{
			VideoID: "dQw4w9WgXcQ",
			Title:   "Go Concurrency Patterns",
			URL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		GeneratedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   Format
		wantOK bool
	}{
		{"text", FormatText, true},
		{"markdown", FormatMarkdown, true},
		{"html", FormatHTML, true},
		{"", FormatMarkdown, true},
		{" HTML ", FormatHTML, true},
		{"pdf", FormatMarkdown, false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAsText(t *testing.T) {
	got := AsText(sampleNote())

	if !strings.HasPrefix(got, "Go Concurrency Patterns\n=======================\n") {
		t.Errorf("missing underlined title header:\n%s", got[:80])
	}
	if !strings.Contains(got, "Video URL: https://www.youtube.com/watch?v=dQw4w9WgXcQ") {
		t.Error("missing video URL line")
	}

	for _, stripped := range []string{"# Main", "**bold**", "*italic*", "](https://example.com)"} {
		if strings.Contains(got, stripped) {
			t.Errorf("markdown syntax %q should be stripped", stripped)
		}
	}
	for _, kept := range []string{"Main Topic", "bold", "italic", "link", "• [0:15] First point", "• Step one"} {
		if !strings.Contains(got, kept) {
			t.Errorf("plain text missing %q", kept)
		}
	}
}

func TestAsMarkdown(t *testing.T) {
	got, err := AsMarkdown(sampleNote())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(got, "---\n") {
		t.Error("missing front matter open")
	}
	for _, want := range []string{
		"title: Go Concurrency Patterns",
		"video_url: https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"2025-06-01T12:30:00Z",
		"video_id: dQw4w9WgXcQ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("front matter missing %q in:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "# Main Topic") {
		t.Error("markdown body should be preserved")
	}
}

func TestAsHTML(t *testing.T) {
	got := AsHTML(sampleNote())

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>Go Concurrency Patterns</h1>",
		"<h1>Main Topic</h1>",
		"<strong>bold</strong>",
		"<em>italic</em>",
		`<a href="https://example.com">link</a>`,
		`<span class="timestamp-link">[0:15]</span>`,
		`<span class="timestamp-link">[1:02:03]</span>`,
		"<li>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestAsHTMLEscapesContent(t *testing.T) {
	note := sampleNote()
	note.VideoInfo.Title = `<script>alert("x")</script>`
	note.Notes = "Plain line with <tags> & ampersands"

	got := AsHTML(note)
	if strings.Contains(got, "<script>") {
		t.Error("title must be escaped")
	}
	if !strings.Contains(got, "&lt;tags&gt; &amp; ampersands") {
		t.Error("body text must be escaped")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"Go Concurrency Patterns", FormatMarkdown, "go-concurrency-patterns-notes.md"},
		{"What?! A (weird) title...", FormatText, "what-a-weird-title-notes.txt"},
		{"", FormatHTML, "notes-notes.html"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, tt.format); got != tt.want {
			t.Errorf("Filename(%q, %v) = %q, want %q", tt.title, tt.format, got, tt.want)
		}
	}
}
