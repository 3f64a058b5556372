package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/coach"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/repository"
	"github.com/alexanderramin/studymate/internal/service"
	"github.com/alexanderramin/studymate/internal/settings"
	"github.com/alexanderramin/studymate/internal/testutil"
)

// stubBackend answers generation requests with fixed results.
type stubBackend struct {
	gen      *backend.Generation
	err      error
	filename string
	count    int
}

func (b *stubBackend) GenerateFlashcards(_ context.Context, filename string, r io.Reader, count int) (*backend.Generation, error) {
	if err := backend.ValidateCount(count); err != nil {
		return nil, err
	}
	_, _ = io.ReadAll(r)
	b.filename = filename
	b.count = count
	return b.gen, b.err
}

func (b *stubBackend) GenerateFlashcardsFromText(_ context.Context, _ string, count int) (*backend.Generation, error) {
	b.count = count
	return b.gen, b.err
}

func (b *stubBackend) PhaseStartAudio(context.Context, domain.VoiceSettings) string { return "" }
func (b *stubBackend) PhaseEndAudio(context.Context, domain.VoiceSettings) string   { return "" }

type testServer struct {
	server  *Server
	app     *service.Companion
	bus     *events.Bus
	backend *stubBackend
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	store := settings.NewStore(repository.NewSQLiteKVRepo(database))
	require.NoError(t, store.Save(ctx, testutil.NewTestSettings(testutil.WithVoice(false))))

	ts := &testServer{
		bus:     events.NewBus(zerolog.Nop()),
		backend: &stubBackend{},
	}
	t.Cleanup(func() { ts.bus.Close() })

	app, err := service.New(ctx, service.Options{
		Store:     store,
		PhaseLogs: repository.NewSQLitePhaseLogRepo(database),
		UoW:       testutil.NewTestUoW(database),
		Backend:   ts.backend,
		Bus:       ts.bus,
		Coach:     coach.New(coach.FixedPicker(0)),
		Runner:    (&testutil.ManualClock{}).RunnerConfig(),
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	ts.app = app
	ts.server = NewServer(app, ts.bus, zerolog.Nop())
	return ts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   int             `json:"count"`
	Reply   json.RawMessage `json:"reply"`
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.serve(t, req)
}

func (ts *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSessionEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[sessionView](t, env.Data)
	assert.Equal(t, domain.PhaseWork, view.Phase)
	assert.Equal(t, 1500, view.RemainingSeconds)
	assert.Equal(t, "25:00", view.Clock)
	assert.Equal(t, "Focus Time", view.PhaseLabel)

	_, env = ts.do(t, http.MethodPost, "/api/session/start", nil)
	assert.True(t, decode[sessionView](t, env.Data).Running)

	_, env = ts.do(t, http.MethodPost, "/api/session/toggle", nil)
	assert.False(t, decode[sessionView](t, env.Data).Running)

	_, env = ts.do(t, http.MethodPost, "/api/session/pause", nil)
	assert.False(t, decode[sessionView](t, env.Data).Running)

	_, env = ts.do(t, http.MethodPost, "/api/session/restart", nil)
	assert.Equal(t, 1500, decode[sessionView](t, env.Data).RemainingSeconds)
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/api/chat", chatRequest{Message: "begin please"})
	require.Equal(t, http.StatusOK, w.Code)
	reply := decode[domain.ChatMessage](t, env.Reply)
	assert.Equal(t, domain.KindTimer, reply.Kind)
	assert.True(t, ts.app.Snapshot().Running)

	w, env = ts.do(t, http.MethodPost, "/api/chat", chatRequest{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	w, env = ts.do(t, http.MethodPost, "/api/chat", chatRequest{Message: strings.Repeat("x", maxMessageSize+1)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "maximum size")

	_, env = ts.do(t, http.MethodGet, "/api/messages", nil)
	msgs := decode[[]domain.ChatMessage](t, env.Data)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
}

func TestSettingsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(t, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, 25, decode[domain.StudySettings](t, env.Data).WorkDuration)

	w, env := ts.do(t, http.MethodPut, "/api/settings", map[string]any{"workDuration": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "invalid duration")

	w, env = ts.do(t, http.MethodPut, "/api/settings", map[string]any{"workDuration": 30})
	require.Equal(t, http.StatusOK, w.Code)
	saved := decode[domain.StudySettings](t, env.Data)
	assert.Equal(t, 30, saved.WorkDuration)
	assert.Equal(t, 5, saved.ShortBreakDuration, "fields not in the body are kept")
	assert.Equal(t, 1800, ts.app.Snapshot().RemainingSeconds)
}

func TestFlashcardEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w, env := ts.do(t, http.MethodPost, "/api/flashcards", flashcardRequest{Front: "2+2?", Back: "4"})
	require.Equal(t, http.StatusCreated, w.Code)
	card := decode[domain.Flashcard](t, env.Data)
	assert.Equal(t, "2+2?", card.Front)

	w, _ = ts.do(t, http.MethodPost, "/api/flashcards", flashcardRequest{Front: "no back"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = ts.do(t, http.MethodGet, "/api/flashcards", nil)
	assert.Equal(t, 4, env.Count)

	w, _ = ts.do(t, http.MethodDelete, "/api/flashcards/"+card.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = ts.do(t, http.MethodDelete, "/api/flashcards/"+card.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func multipartRequest(t *testing.T, filename, content, count string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("count", count))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/flashcards/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGenerateEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.backend.gen = &backend.Generation{
		Flashcards: []backend.GeneratedCard{
			{Question: "What is mitosis?", Answer: "Cell division"},
			{Question: "What is meiosis?", Answer: "Division producing gametes"},
		},
		Count:  2,
		Source: "bio.txt",
	}

	w, env := ts.serve(t, multipartRequest(t, "bio.txt", "cells divide", "2"))
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	assert.Equal(t, 2, env.Count)
	assert.Equal(t, "bio.txt", ts.backend.filename)
	assert.Equal(t, 2, ts.backend.count)
	assert.Len(t, ts.app.Flashcards(), 5)

	w, _ = ts.serve(t, multipartRequest(t, "bio.txt", "cells", "many"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = ts.serve(t, multipartRequest(t, "bio.txt", "cells", "51"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "between 1 and 50")

	ts.backend.err = backend.ErrUnavailable
	w, _ = ts.do(t, http.MethodPost, "/api/flashcards/generate", generateTextRequest{Text: "notes"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, backend.DefaultCount, ts.backend.count)
}

func TestVibesAndHistoryEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(t, http.MethodGet, "/api/vibes", nil)
	vibes := decode[[]domain.Vibe](t, env.Data)
	require.Len(t, vibes, 4)
	assert.Equal(t, "rain", vibes[0].ID)

	w, env := ts.do(t, http.MethodGet, "/api/history?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = ts.do(t, http.MethodGet, "/api/history?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	httpSrv := httptest.NewServer(ts.server.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var hello map[string]any
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "hello", hello["type"])

	resp, err := http.Post(httpSrv.URL+"/api/session/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	var ev events.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.SessionRunning, ev.Type)
	require.NotNil(t, ev.Session)
	assert.True(t, ev.Session.Running)
}
