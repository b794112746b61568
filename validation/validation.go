package validation

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/akshatgupta/notetube/config"
	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{6,16}$`)

type Validator struct {
	config *config.Config
}

func NewValidator(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// ValidateURL performs URL validation
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	// Protocol validation
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	// Domain validation
	host := parsedURL.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return errors.InvalidInput(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}

// ValidateVideoID checks the video identifier shape.
func (v *Validator) ValidateVideoID(id string) error {
	const op = "Validator.ValidateVideoID"

	if id == "" {
		return errors.InvalidInput(op, nil, "Video ID is required")
	}
	if !videoIDPattern.MatchString(id) {
		return errors.InvalidInput(op, nil, "Invalid video ID format")
	}
	return nil
}

// ValidateAPIKey checks the credential shape without calling the provider.
func (v *Validator) ValidateAPIKey(key string) error {
	const op = "Validator.ValidateAPIKey"

	if key == "" {
		return errors.InvalidInput(op, nil, "API key is required")
	}
	if !strings.HasPrefix(key, "sk-") {
		return errors.InvalidInput(op, nil, "API key must start with sk-")
	}
	return nil
}

// ValidateTranscript checks the incoming segment list before the pipeline
// runs.
func (v *Validator) ValidateTranscript(segments []models.TranscriptSegment) error {
	const op = "Validator.ValidateTranscript"

	if len(segments) == 0 {
		return errors.InvalidInput(op, nil, "No transcript provided")
	}

	total := 0
	for _, seg := range segments {
		total += len(seg.Text)
	}
	if max := v.config.Notes.MaxTranscriptLength; max > 0 && total > max {
		return errors.InvalidInput(op, nil,
			fmt.Sprintf("Transcript exceeds maximum length of %d characters", max))
	}

	return nil
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	// Method validation
	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.InvalidInput(op, nil, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	// Content type validation
	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	// Content length validation
	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
