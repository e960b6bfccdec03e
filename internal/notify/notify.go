// Package notify delivers task events to the users they concern.
// Publishing never blocks the caller.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
)

// EventType names a kind of event.
type EventType string

const (
	EventTaskStatusChanged EventType = "task.status_changed"
)

// Event is a notification addressed to a single user.
type Event struct {
	Type      EventType         `json:"type"`
	UserID    uint64            `json:"user_id"`
	ProjectID uint64            `json:"project_id"`
	TaskID    uint64            `json:"task_id"`
	TaskTitle string            `json:"task_title"`
	OldStatus models.TaskStatus `json:"old_status"`
	NewStatus models.TaskStatus `json:"new_status"`
	At        time.Time         `json:"at"`
}

// TaskStatusChanged builds the event sent to the owner of task's project.
func TaskStatusChanged(project *models.Project, task *models.Task, oldStatus models.TaskStatus, at time.Time) Event {
	return Event{
		Type:      EventTaskStatusChanged,
		UserID:    project.UserID,
		ProjectID: project.ID,
		TaskID:    task.ID,
		TaskTitle: task.Title,
		OldStatus: oldStatus,
		NewStatus: task.Status,
		At:        at,
	}
}

// Publisher defines the interface for event publishing.
type Publisher interface {
	// Publish delivers event to the subscribers of event.UserID.
	Publish(event Event)
}

// MemoryPublisher is an in-memory implementation of Publisher.
type MemoryPublisher struct {
	subscribers map[uint64][]chan Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	logger      *slog.Logger
}

// PublisherOption configures a MemoryPublisher.
type PublisherOption func(*MemoryPublisher)

// WithBufferSize sets the channel buffer size for subscribers.
func WithBufferSize(size int) PublisherOption {
	return func(p *MemoryPublisher) {
		p.bufferSize = size
	}
}

// WithLogger sets the logger events are recorded to.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *MemoryPublisher) {
		p.logger = logger
	}
}

// NewMemoryPublisher creates a new in-memory publisher.
func NewMemoryPublisher(opts ...PublisherOption) *MemoryPublisher {
	p := &MemoryPublisher{
		subscribers: make(map[uint64][]chan Event),
		bufferSize:  32,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends event to every subscriber of its user. Subscribers with a
// full buffer miss the event.
func (p *MemoryPublisher) Publish(event Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return
	}

	p.logger.Info("notification",
		"type", event.Type,
		"user_id", event.UserID,
		"project_id", event.ProjectID,
		"task_id", event.TaskID,
		"old_status", event.OldStatus,
		"new_status", event.NewStatus,
	)

	for _, ch := range p.subscribers[event.UserID] {
		select {
		case ch <- event:
		default:
			p.logger.Warn("notification dropped, subscriber buffer full", "user_id", event.UserID)
		}
	}
}

// Subscribe returns a channel receiving the user's events.
func (p *MemoryPublisher) Subscribe(userID uint64) <-chan Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Event, p.bufferSize)
	if p.closed {
		close(ch)
		return ch
	}
	p.subscribers[userID] = append(p.subscribers[userID], ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (p *MemoryPublisher) Unsubscribe(userID uint64, ch <-chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := p.subscribers[userID]
	for i, sub := range subs {
		if sub == ch {
			close(sub)
			p.subscribers[userID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(p.subscribers[userID]) == 0 {
		delete(p.subscribers, userID)
	}
}

// Close shuts down the publisher and closes all subscriptions.
func (p *MemoryPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for userID, subs := range p.subscribers {
		for _, ch := range subs {
			close(ch)
		}
		delete(p.subscribers, userID)
	}
}
