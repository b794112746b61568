package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akshatgupta/notetube/config"
	"github.com/akshatgupta/notetube/errors"
	"github.com/akshatgupta/notetube/models"
	"github.com/akshatgupta/notetube/openai"
	"github.com/akshatgupta/notetube/services/notes"
)

type stubService struct {
	result *models.GenerationResult
	note   *models.Note
	err    error
	status notes.StatusInfo
}

func (s *stubService) GenerateNotes(ctx context.Context, req notes.GenerateRequest) (*models.GenerationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) GetCached(ctx context.Context, videoID string) (*models.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.note, nil
}

func (s *stubService) ClearCache(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return 2, nil
}

func (s *stubService) Status() notes.StatusInfo { return s.status }

type stubSettingsRepo struct {
	settings models.Settings
	saved    *models.Settings
}

func (s *stubSettingsRepo) Get(ctx context.Context) (models.Settings, error) {
	return s.settings, nil
}

func (s *stubSettingsRepo) Save(ctx context.Context, settings models.Settings) error {
	s.saved = &settings
	return nil
}

type stubKeyClient struct {
	valid bool
}

func (s *stubKeyClient) CreateCompletion(ctx context.Context, req openai.CompletionRequest) (string, error) {
	return "", nil
}
func (s *stubKeyClient) ValidateKey(ctx context.Context, key string) (bool, error) {
	return s.valid, nil
}
func (s *stubKeyClient) HasCredential() bool { return true }

func testServerConfig() *config.Config {
	return &config.Config{
		ServerPort: "8080",
		Notes:      config.NotesConfig{MaxTranscriptLength: 500000},
		Version:    "test",
		Middleware: config.MiddlewareConfig{
			EnableRecover:   true,
			EnableRequestID: true,
			EnableCORS:      true,
		},
		CORS: config.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type"},
		},
	}
}

func newTestServer(svc notes.Service, client openai.Client) (*Server, *stubSettingsRepo) {
	settingsRepo := &stubSettingsRepo{settings: models.DefaultSettings()}
	srv := NewServer(testServerConfig(),
		WithServices(svc, settingsRepo, client, NewProgressHub()))
	return srv, settingsRepo
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return resp
}

func sampleNote() *models.Note {
	return &models.Note{
		VideoID: "dQw4w9WgXcQ",
		Notes:   "# Notes\n\ncontent",
		VideoInfo: models.VideoInfo{
			VideoID: "dQw4w9WgXcQ",
			Title:   "Test Video",
			URL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		GeneratedAt: time.Now(),
	}
}

func TestHandleGenerate(t *testing.T) {
	svc := &stubService{
		result: &models.GenerationResult{
			Notes:     "# Test Video\n\nnotes",
			VideoInfo: models.VideoInfo{VideoID: "dQw4w9WgXcQ"},
			Chunks:    1,
		},
	}
	srv, _ := newTestServer(svc, &stubKeyClient{})

	body, _ := json.Marshal(map[string]interface{}{
		"video_info": map[string]string{
			"video_id": "dQw4w9WgXcQ",
			"title":    "Test Video",
			"url":      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		"segments": []map[string]interface{}{
			{"start": 0, "duration": 5, "text": "Hello world"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("envelope should report success")
	}
	if resp.RequestID == "" {
		t.Error("envelope missing request ID")
	}
}

func TestHandleGenerateInvalidVideoID(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{})

	body := `{"video_info": {"video_id": "!!"}, "segments": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success || resp.Error == "" {
		t.Errorf("expected error envelope, got %+v", resp)
	}
}

func TestHandleGenerateConflict(t *testing.T) {
	svc := &stubService{err: errors.Conflict("test", nil, "Note generation already in progress")}
	srv, _ := newTestServer(svc, &stubKeyClient{})

	body := `{"video_info": {"video_id": "dQw4w9WgXcQ"}, "segments": [{"text": "hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandleGetMissingParam(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleGetNotFound(t *testing.T) {
	svc := &stubService{err: errors.NotFound("test", nil, "Notes not found")}
	srv, _ := newTestServer(svc, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/notes?video_id=dQw4w9WgXcQ", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleGetCached(t *testing.T) {
	svc := &stubService{note: sampleNote()}
	srv, _ := newTestServer(svc, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/notes?video_id=dQw4w9WgXcQ", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Test Video") {
		t.Error("response missing note data")
	}
}

func TestHandleClear(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodDelete, "/api/notes", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"cleared":2`) {
		t.Errorf("response missing cleared count: %s", rec.Body.String())
	}
}

func TestHandleExport(t *testing.T) {
	svc := &stubService{note: sampleNote()}
	srv, _ := newTestServer(svc, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/notes/export?video_id=dQw4w9WgXcQ&format=text", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "test-video-notes.txt") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "Test Video\n==========") {
		t.Errorf("unexpected export body:\n%s", rec.Body.String())
	}
}

func TestHandleExportUnsupportedFormat(t *testing.T) {
	srv, _ := newTestServer(&stubService{note: sampleNote()}, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/notes/export?video_id=dQw4w9WgXcQ&format=docx", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSettingsRoundTrip(t *testing.T) {
	srv, settingsRepo := newTestServer(&stubService{}, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET settings failed: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"summary_depth":"medium"`) {
		t.Errorf("expected default settings, got %s", rec.Body.String())
	}

	body := `{"summary_depth": "detailed", "include_timestamps": true}`
	req = httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(body))
	rec = httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT settings failed: %d", rec.Code)
	}
	if settingsRepo.saved == nil || settingsRepo.saved.SummaryDepth != models.DepthDetailed {
		t.Errorf("settings not persisted: %+v", settingsRepo.saved)
	}
}

func TestHandleSettingsInvalidDepth(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"summary_depth": "verbose"}`))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleKeyValidate(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{valid: true})

	req := httptest.NewRequest(http.MethodPost, "/api/key/validate",
		strings.NewReader(`{"api_key": "sk-test123"}`))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"valid":true`) {
		t.Errorf("expected valid key response, got %s", rec.Body.String())
	}
}

func TestHandleKeyValidateBadFormat(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{valid: true})

	req := httptest.NewRequest(http.MethodPost, "/api/key/validate",
		strings.NewReader(`{"api_key": "not-a-key"}`))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"valid":false`) {
		t.Errorf("malformed key should be invalid without a round trip, got %s", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(&stubService{}, &stubKeyClient{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}

func TestMiddlewareToggles(t *testing.T) {
	cfg := testServerConfig()
	cfg.Middleware.EnableRequestID = false
	cfg.Middleware.EnableCORS = false

	settingsRepo := &stubSettingsRepo{settings: models.DefaultSettings()}
	srv := NewServer(cfg,
		WithServices(&stubService{}, settingsRepo, &stubKeyClient{}, NewProgressHub()))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "" {
		t.Error("request ID middleware should be disabled")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS middleware should be disabled")
	}
}

func TestMiddlewareRateLimitToggle(t *testing.T) {
	cfg := testServerConfig()
	cfg.Middleware.EnableRateLimit = true
	cfg.RateLimit = config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		BurstSize:         1,
	}

	settingsRepo := &stubSettingsRepo{settings: models.DefaultSettings()}
	srv := NewServer(cfg,
		WithServices(&stubService{}, settingsRepo, &stubKeyClient{}, NewProgressHub()))
	handler := srv.routes()

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

	if first.Code != http.StatusOK {
		t.Errorf("first request should pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request should be limited, got %d", second.Code)
	}
}

func TestProgressHubPublish(t *testing.T) {
	hub := NewProgressHub()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleProgress))
	defer ts.Close()

	// Publishing with no subscribers must not block.
	doneCh := make(chan struct{})
	go func() {
		hub.Publish("dQw4w9WgXcQ", "Processing chunk 1/3 (33%)")
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}
