package notes

import (
	"context"
	"fmt"

	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/openai"
	"github.com/sirupsen/logrus"
)

// processChunk builds the prompt for one chunk and walks the model
// fallback list: the first success wins, exhaustion surfaces the last
// upstream error. The same model is never retried.
func (s *service) processChunk(
	ctx context.Context,
	chunk string,
	settings models.Settings,
	index, total int,
	info models.VideoInfo,
) (string, CostEstimate, error) {
	const op = "NotesService.processChunk"

	prompt := buildChunkPrompt(s.config.Templates, chunk, settings, index, total, info)
	estimate := s.config.Pricing.Estimate(EstimateTokens(prompt), s.config.MaxTokens)

	logger := s.logger.WithFields(logrus.Fields{
		"video_id":       info.VideoID,
		"chunk":          index + 1,
		"total":          total,
		"prompt_length":  len(prompt),
		"input_tokens":   estimate.InputTokens,
		"estimated_cost": estimate.Formatted(),
	})
	logger.Debug("Processing chunk")

	if total > 1 {
		percent := (index + 1) * 100 / total
		s.publish(info.VideoID,
			fmt.Sprintf("Processing chunk %d/%d (%d%%)", index+1, total, percent))
	}

	messages := []openai.Message{
		{Role: "system", Content: chunkSystemPrompt},
		{Role: "user", Content: prompt},
	}

	var lastErr error
	for _, model := range s.config.Models {
		text, err := s.client.CreateCompletion(ctx, openai.CompletionRequest{
			Model:       model,
			Messages:    messages,
			MaxTokens:   s.config.MaxTokens,
			Temperature: s.config.Temperature,
		})
		if err != nil {
			logger.WithError(err).WithField("model", model).Warn("Model failed, trying next")
			lastErr = err
			continue
		}

		logger.WithField("model", model).Debug("Chunk processed")
		return text, estimate, nil
	}

	return "", estimate, errors.Unavailable(op, lastErr,
		fmt.Sprintf("All completion models failed for chunk %d/%d", index+1, total))
}

// publish sends a progress line to the sink, if any. Fire-and-forget:
// a missing or slow consumer never affects the pipeline.
func (s *service) publish(videoID, message string) {
	if s.progress == nil {
		return
	}
	s.progress.Publish(videoID, message)
}
