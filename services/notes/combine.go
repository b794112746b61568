package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/openai"
)

// chunkSeparator joins per-chunk outputs before consolidation and is the
// visible divider in the naive-concatenation fallback.
const chunkSeparator = "\n\n---\n\n"

// combineChunks merges the ordered per-chunk outputs into the final note
// document. A single output is formatted directly. Multiple outputs go
// through one consolidation call; if that call fails the naive join is
// used instead. Consolidation failure never fails the pipeline.
func (s *service) combineChunks(
	ctx context.Context,
	outputs []string,
	info models.VideoInfo,
	settings models.Settings,
	generatedAt time.Time,
) string {
	if len(outputs) == 1 {
		return formatFinalNotes(outputs[0], info, settings, generatedAt)
	}

	combined := strings.Join(outputs, chunkSeparator)

	text, err := s.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model: s.config.Models[0],
		Messages: []openai.Message{
			{Role: "system", Content: combineSystemPrompt},
			{Role: "user", Content: buildCombinePrompt(combined, info)},
		},
		MaxTokens:   s.config.CombineMaxTokens,
		Temperature: s.config.CombineTemp,
	})
	if err != nil {
		s.logger.WithError(err).
			WithField("video_id", info.VideoID).
			Warn("Consolidation failed, falling back to concatenation")
		return formatFinalNotes(combined, info, settings, generatedAt)
	}

	return formatFinalNotes(text, info, settings, generatedAt)
}

// formatFinalNotes prefixes the body with the fixed metadata header.
func formatFinalNotes(
	content string,
	info models.VideoInfo,
	settings models.Settings,
	generatedAt time.Time,
) string {
	return fmt.Sprintf("# %s\n\n**Video URL:** %s\n**Generated:** %s\n**Summary Depth:** %s\n\n---\n\n%s",
		info.Title,
		info.URL,
		generatedAt.Format("2006-01-02 15:04:05"),
		settings.SummaryDepth,
		content,
	)
}
