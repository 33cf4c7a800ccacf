package events

import (
	"context"
	"log/slog"
	"sync"
)

// LoggingHandler writes every card event to the log as an audit trail.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler. If logger is nil, the default logger is used.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger.With(slog.String("component", "card_audit"))}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *CardEvent) error {
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("card_id", event.CardID.String()),
	}
	if len(event.Payload) > 0 {
		var change ScheduleChange
		if err := event.UnmarshalPayload(&change); err == nil && change.NextReview != "" {
			attrs = append(attrs,
				slog.Float64("ease_factor", change.EaseFactor),
				slog.Float64("interval", change.Interval),
				slog.String("next_review", change.NextReview))
			if change.Rating != "" {
				attrs = append(attrs, slog.String("rating", change.Rating))
			}
		}
	}
	h.logger.InfoContext(ctx, "card event", attrs...)
	return nil
}

// Counter tallies events by type. It is safe for concurrent use.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// HandleEvent implements EventHandler.
func (c *Counter) HandleEvent(_ context.Context, event *CardEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[event.Type]++
	return nil
}

// Count returns how many events of eventType were seen.
func (c *Counter) Count(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[eventType]
}

// Snapshot returns a copy of all counts.
func (c *Counter) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
