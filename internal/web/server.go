// Package web exposes the companion over a JSON API and a websocket event
// stream for a browser front end.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/studymate/internal/service"
)

// Companion is everything the API drives.
type Companion interface {
	service.SessionService
	service.ChatService
	service.SettingsService
	service.FlashcardService
	service.HistoryService
}

// Server is the studymate HTTP API.
type Server struct {
	app      Companion
	events   service.Subscriber
	router   *gin.Engine
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewServer builds the router. A nil events subscriber disables /api/events.
func NewServer(app Companion, events service.Subscriber, log zerolog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		app:      app,
		events:   events,
		router:   router,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:      log.With().Str("component", "web").Logger(),
	}

	api := router.Group("/api")
	{
		api.GET("/session", s.handleSession)
		api.POST("/session/start", s.handleStart)
		api.POST("/session/pause", s.handlePause)
		api.POST("/session/toggle", s.handleToggle)
		api.POST("/session/restart", s.handleRestart)

		api.POST("/chat", s.handleChat)
		api.GET("/messages", s.handleMessages)

		api.GET("/settings", s.handleGetSettings)
		api.PUT("/settings", s.handlePutSettings)

		api.GET("/flashcards", s.handleListFlashcards)
		api.POST("/flashcards", s.handleAddFlashcard)
		api.DELETE("/flashcards/:id", s.handleRemoveFlashcard)
		api.POST("/flashcards/generate", s.handleGenerate)

		api.GET("/vibes", s.handleVibes)
		api.GET("/history", s.handleHistory)
		api.GET("/events", s.handleEvents)
	}

	return s
}

// Handler returns the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
