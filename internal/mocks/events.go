package mocks

import (
	"context"
	"sync"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/events"
)

// EventEmitter records emitted events.
type EventEmitter struct {
	mu     sync.Mutex
	events []*events.Event
	Err    error
}

var _ events.EventEmitter = (*EventEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (e *EventEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.Err
}

// Events returns the recorded events.
func (e *EventEmitter) Events() []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*events.Event, len(e.events))
	copy(out, e.events)
	return out
}

// Types returns the types of the recorded events in order.
func (e *EventEmitter) Types() []string {
	var out []string
	for _, ev := range e.Events() {
		out = append(out, ev.Type)
	}
	return out
}

// Assignment is one recorded Notifier call.
type Assignment struct {
	To     string
	Name   string
	Task   *domain.TaskView
	Sender string
}

// Notifier records assignment notifications.
type Notifier struct {
	mu   sync.Mutex
	sent []Assignment
}

// SendAssignment implements generation.Notifier.
func (n *Notifier) SendAssignment(_ context.Context, to, name string, task *domain.TaskView, sender string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, Assignment{To: to, Name: name, Task: task, Sender: sender})
}

// Sent returns the recorded notifications.
func (n *Notifier) Sent() []Assignment {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Assignment, len(n.sent))
	copy(out, n.sent)
	return out
}
