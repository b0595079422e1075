package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples the session from wailsRuntime
// ─────────────────────────────────────────────────────────────

// EventEmitter pushes canvas events to the frontend. The app layer
// implements this by delegating to wailsRuntime.EventsEmit; the session
// only ever sees the interface, which keeps it testable with a mock.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}
