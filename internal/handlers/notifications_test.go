package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/dto"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/notify"
)

// dialNotifications opens the notification stream on server with c's
// session cookies.
func dialNotifications(t *testing.T, server *httptest.Server, c *client) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	req := &http.Request{Header: http.Header{}}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/notifications/ws"
	return websocket.DefaultDialer.Dial(url, req.Header)
}

func TestNotificationHandler_StreamsStatusChanges(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signIn(t, "alice")
	project := createProject(t, alice, "Alpha")

	server := httptest.NewServer(env.router)
	defer server.Close()

	conn, resp, err := dialNotifications(t, server, alice)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	tasksPath := fmt.Sprintf("/api/projects/%d/tasks", project.ID)
	w := alice.do(http.MethodPost, tasksPath, map[string]any{"title": "Ship it"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[dto.TaskDTO](t, w)

	w = alice.do(http.MethodPatch, fmt.Sprintf("%s/%d", tasksPath, task.ID), map[string]any{"title": "Ship it now"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = alice.do(http.MethodPatch, fmt.Sprintf("%s/%d", tasksPath, task.ID), map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event notify.Event
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, notify.EventTaskStatusChanged, event.Type)
	assert.Equal(t, alice.userID, event.UserID)
	assert.Equal(t, project.ID, event.ProjectID)
	assert.Equal(t, task.ID, event.TaskID)
	assert.Equal(t, "Ship it now", event.TaskTitle)
	assert.Equal(t, models.TaskStatusTodo, event.OldStatus)
	assert.Equal(t, models.TaskStatusDone, event.NewStatus)
}

func TestNotificationHandler_RequiresSession(t *testing.T) {
	env := setupTestEnv(t)

	server := httptest.NewServer(env.router)
	defer server.Close()

	conn, resp, err := dialNotifications(t, server, env.anonymous(t))
	if conn != nil {
		conn.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
