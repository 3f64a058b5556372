package backend

import "time"

// Config holds connection settings for the flashcard and audio backend.
type Config struct {
	BaseURL string
	// Timeout bounds the audio calls, which run on every phase change.
	Timeout time.Duration
	// GenerateTimeout bounds flashcard generation, which can take much longer.
	GenerateTimeout time.Duration
	LogCalls        bool
}

// DefaultConfig points at a backend on the local machine.
func DefaultConfig() Config {
	return Config{
		BaseURL:         "http://localhost:8001",
		Timeout:         10 * time.Second,
		GenerateTimeout: 120 * time.Second,
	}
}
