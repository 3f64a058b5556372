package backend

import (
	"github.com/rs/zerolog"
)

// CallEvent records metadata about a single backend request.
type CallEvent struct {
	Endpoint  string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about backend calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zerolog logger.
type LogObserver struct {
	log zerolog.Logger
}

func NewLogObserver(log zerolog.Logger) *LogObserver {
	return &LogObserver{log: log.With().Str("component", "backend").Logger()}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	e := o.log.Info()
	if !event.Success {
		e = o.log.Warn().Str("error_code", event.ErrorCode)
	}
	e.Str("endpoint", event.Endpoint).
		Int64("latency_ms", event.LatencyMs).
		Bool("success", event.Success).
		Msg("backend call")
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
