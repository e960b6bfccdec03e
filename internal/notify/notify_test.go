package notify

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/models"
)

func newTestPublisher(opts ...PublisherOption) *MemoryPublisher {
	opts = append([]PublisherOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewMemoryPublisher(opts...)
}

func TestTaskStatusChanged_AddressesProjectOwner(t *testing.T) {
	project := &models.Project{ID: 3, UserID: 9}
	task := &models.Task{ID: 5, ProjectID: 3, Title: "ship", Status: models.TaskStatusDone}
	at := time.Now()

	event := TaskStatusChanged(project, task, models.TaskStatusTodo, at)

	assert.Equal(t, EventTaskStatusChanged, event.Type)
	assert.Equal(t, uint64(9), event.UserID)
	assert.Equal(t, models.TaskStatusTodo, event.OldStatus)
	assert.Equal(t, models.TaskStatusDone, event.NewStatus)
}

func TestMemoryPublisher_DeliversOnlyToAddressee(t *testing.T) {
	p := newTestPublisher()
	defer p.Close()

	mine := p.Subscribe(1)
	theirs := p.Subscribe(2)

	p.Publish(Event{Type: EventTaskStatusChanged, UserID: 1, TaskID: 7})

	select {
	case event := <-mine:
		assert.Equal(t, uint64(7), event.TaskID)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}

	select {
	case <-theirs:
		t.Fatal("unexpected event for other user")
	default:
	}
}

func TestMemoryPublisher_FullBufferDoesNotBlock(t *testing.T) {
	p := newTestPublisher(WithBufferSize(1))
	defer p.Close()

	ch := p.Subscribe(1)
	p.Publish(Event{UserID: 1, TaskID: 1})
	p.Publish(Event{UserID: 1, TaskID: 2})

	event := <-ch
	assert.Equal(t, uint64(1), event.TaskID)
	assert.Len(t, ch, 0)
}

func TestMemoryPublisher_UnsubscribeAndClose(t *testing.T) {
	p := newTestPublisher()

	ch := p.Subscribe(1)
	p.Unsubscribe(1, ch)
	_, open := <-ch
	assert.False(t, open)

	other := p.Subscribe(2)
	p.Close()
	_, open = <-other
	assert.False(t, open)

	p.Publish(Event{UserID: 2})

	late := p.Subscribe(2)
	_, open = <-late
	require.False(t, open)
}
