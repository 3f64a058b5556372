package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/coach"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/repository"
	"github.com/alexanderramin/studymate/internal/service"
)

const (
	maxMessageSize = 4 * 1024
	maxUploadSize  = 16 << 20
	defaultHistory = 7
)

type chatRequest struct {
	Message string `json:"message"`
}

type flashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type generateTextRequest struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// sessionView adds display fields to the engine state.
type sessionView struct {
	engine.State
	PhaseLabel string `json:"phaseLabel"`
	Clock      string `json:"clock"`
}

func newSessionView(st engine.State) sessionView {
	return sessionView{
		State:      st,
		PhaseLabel: st.Phase.Label(),
		Clock:      coach.FormatClock(st.RemainingSeconds),
	}
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// failErr maps domain and backend errors onto HTTP statuses.
func failErr(c *gin.Context, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidFlashcard),
		errors.Is(err, domain.ErrInvalidVoiceSettings),
		errors.Is(err, domain.ErrUnknownVibe),
		errors.Is(err, backend.ErrInvalidCount),
		errors.Is(err, backend.ErrUnsupportedFile),
		errors.Is(err, backend.ErrEmptyInput),
		errors.Is(err, service.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, backend.ErrTimeout):
		fail(c, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, backend.ErrUnavailable), errors.As(err, &apiErr):
		fail(c, http.StatusBadGateway, err.Error())
	default:
		fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleSession(c *gin.Context) {
	ok(c, http.StatusOK, newSessionView(s.app.Snapshot()))
}

func (s *Server) handleStart(c *gin.Context) {
	ok(c, http.StatusOK, newSessionView(s.app.Start(c.Request.Context())))
}

func (s *Server) handlePause(c *gin.Context) {
	ok(c, http.StatusOK, newSessionView(s.app.Pause(c.Request.Context())))
}

func (s *Server) handleToggle(c *gin.Context) {
	ok(c, http.StatusOK, newSessionView(s.app.Toggle(c.Request.Context())))
}

func (s *Server) handleRestart(c *gin.Context) {
	ok(c, http.StatusOK, newSessionView(s.app.Restart(c.Request.Context())))
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Message) > maxMessageSize {
		fail(c, http.StatusBadRequest, "message exceeds maximum size of 4KB")
		return
	}

	reply, err := s.app.Send(c.Request.Context(), req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reply":   reply,
		"session": newSessionView(s.app.Snapshot()),
	})
}

func (s *Server) handleMessages(c *gin.Context) {
	ok(c, http.StatusOK, s.app.Messages())
}

func (s *Server) handleGetSettings(c *gin.Context) {
	ok(c, http.StatusOK, s.app.Settings())
}

func (s *Server) handlePutSettings(c *gin.Context) {
	// Start from the current blob so partial bodies only touch what they name.
	next := s.app.Settings()
	if err := c.BindJSON(&next); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.app.ReplaceSettings(c.Request.Context(), next)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, saved)
}

func (s *Server) handleListFlashcards(c *gin.Context) {
	cards := s.app.Flashcards()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cards,
		"count":   len(cards),
	})
}

func (s *Server) handleAddFlashcard(c *gin.Context) {
	var req flashcardRequest
	if err := c.BindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	card, err := s.app.AddFlashcard(c.Request.Context(), req.Front, req.Back)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, card)
}

func (s *Server) handleRemoveFlashcard(c *gin.Context) {
	if err := s.app.RemoveFlashcard(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Flashcard removed",
	})
}

// handleGenerate accepts either a multipart upload (file, count) or a JSON
// body with raw text.
func (s *Server) handleGenerate(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		cards []domain.Flashcard
		err   error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
		header, ferr := c.FormFile("file")
		if ferr != nil {
			fail(c, http.StatusBadRequest, "No file provided")
			return
		}
		count := backend.DefaultCount
		if raw := c.PostForm("count"); raw != "" {
			if count, err = strconv.Atoi(raw); err != nil {
				fail(c, http.StatusBadRequest, backend.ErrInvalidCount.Error())
				return
			}
		}
		file, oerr := header.Open()
		if oerr != nil {
			fail(c, http.StatusBadRequest, oerr.Error())
			return
		}
		defer file.Close()
		cards, err = s.app.GenerateFlashcards(ctx, header.Filename, file, count)
	} else {
		var req generateTextRequest
		if berr := c.BindJSON(&req); berr != nil {
			fail(c, http.StatusBadRequest, berr.Error())
			return
		}
		if req.Count == 0 {
			req.Count = backend.DefaultCount
		}
		cards, err = s.app.GenerateFlashcardsFromText(ctx, req.Text, req.Count)
	}

	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    cards,
		"count":   len(cards),
	})
}

func (s *Server) handleVibes(c *gin.Context) {
	ok(c, http.StatusOK, domain.Vibes())
}

func (s *Server) handleHistory(c *gin.Context) {
	days := defaultHistory
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fail(c, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}

	report, err := s.app.History(c.Request.Context(), time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"since":     report.Since,
		"data":      report.Logs,
		"summaries": report.Summaries,
	})
}

// handleEvents streams companion events to a websocket client until either
// side closes.
func (s *Server) handleEvents(c *gin.Context) {
	if s.events == nil {
		fail(c, http.StatusNotFound, "event stream disabled")
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := s.events.Subscribe(ctx, 64)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"failed to subscribe"}`))
		return
	}

	// The client never sends anything useful; reading only detects close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(gin.H{"type": "hello", "session": newSessionView(s.app.Snapshot())}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-stream:
			if !open {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}
