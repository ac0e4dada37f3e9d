package telemetry

import "log/slog"

// EventType identifies a discrete tank event.
type EventType string

const (
	EventBirth     EventType = "birth"
	EventPurchase  EventType = "purchase"
	EventDeath     EventType = "death"
	EventCatch     EventType = "catch"
	EventAbandon   EventType = "abandon"
	EventGrewUp    EventType = "grew_up"
	EventNamed     EventType = "named"
	EventLoaded    EventType = "loaded"
	EventMilestone EventType = "milestone"
)

// Event is one row of the event log.
type Event struct {
	Tick    int32     `csv:"tick"`
	Time    float64   `csv:"time"`
	Type    EventType `csv:"type"`
	Name    string    `csv:"name"`
	Species string    `csv:"species"`
	Other   string    `csv:"other"` // parent, prey or killer, depending on Type
	Detail  string    `csv:"detail"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("tick", int(e.Tick)),
		slog.String("type", string(e.Type)),
		slog.String("name", e.Name),
	}
	if e.Species != "" {
		attrs = append(attrs, slog.String("species", e.Species))
	}
	if e.Other != "" {
		attrs = append(attrs, slog.String("other", e.Other))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	return slog.GroupValue(attrs...)
}
