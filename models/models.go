package models

import (
	"encoding/json"
	"time"
)

// SummaryDepth controls chunk sizing and the instruction template used
// for note generation.
type SummaryDepth string

const (
	DepthBrief    SummaryDepth = "brief"
	DepthMedium   SummaryDepth = "medium"
	DepthDetailed SummaryDepth = "detailed"
)

func (d SummaryDepth) IsValid() bool {
	return d == DepthBrief || d == DepthMedium || d == DepthDetailed
}

// ParseSummaryDepth normalizes a raw depth value, falling back to medium.
func ParseSummaryDepth(s string) SummaryDepth {
	d := SummaryDepth(s)
	if !d.IsValid() {
		return DepthMedium
	}
	return d
}

// TranscriptSegment is one timed caption line as captured by the scraping
// client. Segments are ordered by Start; overlaps are tolerated.
type TranscriptSegment struct {
	Start     float64 `json:"start" msgpack:"start"`
	Duration  float64 `json:"duration" msgpack:"duration"`
	Text      string  `json:"text" msgpack:"text"`
	Timestamp string  `json:"timestamp,omitempty" msgpack:"timestamp,omitempty"`
}

// VideoInfo is the metadata the scraping client supplies alongside the
// transcript. Read-only input to prompt construction and export.
type VideoInfo struct {
	VideoID   string `json:"video_id" msgpack:"video_id"`
	Title     string `json:"title" msgpack:"title"`
	URL       string `json:"url" msgpack:"url"`
	Timestamp string `json:"timestamp,omitempty" msgpack:"timestamp,omitempty"`
}

// Settings is the persisted user settings object.
type Settings struct {
	SummaryDepth      SummaryDepth `json:"summary_depth" msgpack:"summary_depth"`
	IncludeTimestamps bool         `json:"include_timestamps" msgpack:"include_timestamps"`
	AutoGenerate      bool         `json:"auto_generate" msgpack:"auto_generate"`
	ExportFormat      string       `json:"export_format" msgpack:"export_format"`
	Theme             string       `json:"theme" msgpack:"theme"`
}

// DefaultSettings is the single source of truth for defaults, including
// the medium summary depth.
func DefaultSettings() Settings {
	return Settings{
		SummaryDepth:      DepthMedium,
		IncludeTimestamps: true,
		AutoGenerate:      false,
		ExportFormat:      "markdown",
		Theme:             "light",
	}
}

// Normalize fills zero values with defaults so a partially-populated
// settings payload behaves predictably.
// UnmarshalJSON decodes a settings payload over the defaults, so fields
// absent from a partial payload keep their documented default instead of
// the zero value.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	v := plain(DefaultSettings())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Settings(v)
	return nil
}

func (s Settings) Normalize() Settings {
	if !s.SummaryDepth.IsValid() {
		s.SummaryDepth = DepthMedium
	}
	if s.ExportFormat == "" {
		s.ExportFormat = "markdown"
	}
	if s.Theme == "" {
		s.Theme = "light"
	}
	return s
}

// Note is a generated note document cached per video.
type Note struct {
	VideoID     string    `json:"video_id" msgpack:"video_id"`
	Notes       string    `json:"notes" msgpack:"notes"`
	VideoInfo   VideoInfo `json:"video_info" msgpack:"video_info"`
	GeneratedAt time.Time `json:"generated_at" msgpack:"generated_at"`
}

// IsExpired reports whether the cached note has outlived the validity
// window.
func (n *Note) IsExpired(ttl time.Duration) bool {
	return time.Since(n.GeneratedAt) > ttl
}

// Transcript is the cached raw transcript for a video.
type Transcript struct {
	VideoID   string              `json:"video_id" msgpack:"video_id"`
	Segments  []TranscriptSegment `json:"segments" msgpack:"segments"`
	VideoInfo VideoInfo           `json:"video_info" msgpack:"video_info"`
	FetchedAt time.Time           `json:"fetched_at" msgpack:"fetched_at"`
}

func (t *Transcript) IsExpired(ttl time.Duration) bool {
	return time.Since(t.FetchedAt) > ttl
}

// GenerationResult is what a successful pipeline run returns.
type GenerationResult struct {
	Notes         string    `json:"notes"`
	VideoInfo     VideoInfo `json:"video_info"`
	Settings      Settings  `json:"settings"`
	GeneratedAt   time.Time `json:"generated_at"`
	Chunks        int       `json:"chunks"`
	EstimatedCost float64   `json:"estimated_cost"`
}

// NoteResponse is the API shape for a cached note.
type NoteResponse struct {
	VideoID     string    `json:"video_id"`
	Notes       string    `json:"notes"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
}

func NewNoteResponse(n *Note) *NoteResponse {
	return &NoteResponse{
		VideoID:     n.VideoID,
		Notes:       n.Notes,
		Title:       n.VideoInfo.Title,
		URL:         n.VideoInfo.URL,
		GeneratedAt: n.GeneratedAt,
	}
}
