package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studymate/internal/domain"
)

// Flashcard generation limits accepted by the backend.
const (
	MinCount     = 1
	MaxCount     = 50
	DefaultCount = 10
)

// AllowedExtensions lists the upload types the backend accepts.
var AllowedExtensions = []string{"pdf", "ppt", "pptx", "txt", "md", "jpg", "jpeg", "png", "gif", "webp"}

const (
	endpointGenerate   = "/api/generate-flashcards"
	endpointPhaseStart = "/api/pomodoro-start"
	endpointPhaseEnd   = "/api/pomodoro-end"
)

// GeneratedCard is a question/answer pair produced by the backend.
type GeneratedCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generation is the result of a flashcard generation request.
type Generation struct {
	Flashcards []GeneratedCard `json:"flashcards"`
	Count      int             `json:"count"`
	Source     string          `json:"source"`
}

// Client talks to the flashcard and audio backend.
type Client interface {
	// GenerateFlashcards uploads a study file and returns generated cards.
	GenerateFlashcards(ctx context.Context, filename string, content io.Reader, count int) (*Generation, error)

	// GenerateFlashcardsFromText generates cards from raw notes.
	GenerateFlashcardsFromText(ctx context.Context, text string, count int) (*Generation, error)

	// PhaseStartAudio and PhaseEndAudio return an audio URL for the phase
	// transition cue, or "" when the backend could not provide one.
	PhaseStartAudio(ctx context.Context, voice domain.VoiceSettings) string
	PhaseEndAudio(ctx context.Context, voice domain.VoiceSettings) string
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the backend at cfg.BaseURL.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = def.GenerateTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// ValidateCount checks a requested card count.
func ValidateCount(count int) error {
	if count < MinCount || count > MaxCount {
		return fmt.Errorf("%w (got %d)", ErrInvalidCount, count)
	}
	return nil
}

// CheckFile checks the file name against AllowedExtensions.
func CheckFile(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: empty filename", ErrEmptyInput)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w. Supported: %s", ErrUnsupportedFile, strings.Join(AllowedExtensions, ", "))
}

func (c *httpClient) GenerateFlashcards(ctx context.Context, filename string, content io.Reader, count int) (*Generation, error) {
	if err := ValidateCount(count); err != nil {
		return nil, err
	}
	if err := CheckFile(filename); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.WriteField("count", strconv.Itoa(count)); err != nil {
		return nil, fmt.Errorf("writing count field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	return c.generate(ctx, &body, mw.FormDataContentType())
}

func (c *httpClient) GenerateFlashcardsFromText(ctx context.Context, text string, count int) (*Generation, error) {
	if err := ValidateCount(count); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	data, err := json.Marshal(map[string]any{"text": text, "count": count})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	return c.generate(ctx, bytes.NewReader(data), "application/json")
}

func (c *httpClient) generate(ctx context.Context, body io.Reader, contentType string) (*Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GenerateTimeout)
	defer cancel()

	var gen Generation
	if err := c.post(ctx, endpointGenerate, body, contentType, &gen); err != nil {
		return nil, err
	}
	if gen.Count == 0 {
		gen.Count = len(gen.Flashcards)
	}
	return &gen, nil
}

// audioRequest mirrors the voice parameters the audio endpoints expect.
type audioRequest struct {
	VoiceID       string             `json:"voiceId"`
	VoiceSettings audioVoiceSettings `json:"voiceSettings"`
	Speed         float64            `json:"speed"`
}

type audioVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"speakerBoost"`
}

type audioResponse struct {
	AudioURL string `json:"audioUrl"`
}

func newAudioRequest(v domain.VoiceSettings) audioRequest {
	return audioRequest{
		VoiceID: v.VoiceID,
		VoiceSettings: audioVoiceSettings{
			Stability:       v.Stability,
			SimilarityBoost: v.Similarity,
			Style:           v.StyleExaggeration,
			SpeakerBoost:    v.SpeakerBoost,
		},
		Speed: v.Speed,
	}
}

func (c *httpClient) PhaseStartAudio(ctx context.Context, voice domain.VoiceSettings) string {
	return c.audio(ctx, endpointPhaseStart, voice)
}

func (c *httpClient) PhaseEndAudio(ctx context.Context, voice domain.VoiceSettings) string {
	return c.audio(ctx, endpointPhaseEnd, voice)
}

// audio never fails: errors are reported to the observer and yield "".
func (c *httpClient) audio(ctx context.Context, endpoint string, voice domain.VoiceSettings) string {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	data, err := json.Marshal(newAudioRequest(voice))
	if err != nil {
		return ""
	}
	var resp audioResponse
	if err := c.post(ctx, endpoint, bytes.NewReader(data), "application/json", &resp); err != nil {
		return ""
	}
	return resp.AudioURL
}

func (c *httpClient) post(ctx context.Context, endpoint string, body io.Reader, contentType string, out any) error {
	start := time.Now()
	err := c.doPost(ctx, endpoint, body, contentType, out)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = ErrTimeout
	} else if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	} else if isConnectionError(err) {
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.observer.OnCallComplete(CallEvent{
		Endpoint:  endpoint,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *httpClient) doPost(ctx context.Context, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return err != nil && errors.As(err, &opErr)
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &apiErr):
		return "HTTP_" + strconv.Itoa(apiErr.Status)
	default:
		return "UNKNOWN"
	}
}
