package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-task-api/internal/dto"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
)

func createProject(t *testing.T, c *client, name string) dto.ProjectDTO {
	t.Helper()
	w := c.do(http.MethodPost, "/api/projects", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ProjectDTO](t, w)
}

func TestProjectHandler_CRUD(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signIn(t, "alice")

	project := createProject(t, alice, "Alpha")
	assert.Equal(t, alice.userID, project.UserID)
	assert.Nil(t, project.TasksLastUpdatedAt)

	path := fmt.Sprintf("/api/projects/%d", project.ID)

	w := alice.do(http.MethodPatch, path, map[string]string{"description": "first project"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[dto.ProjectDTO](t, w)
	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, "first project", updated.Description)

	w = alice.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}](t, w)
	require.Len(t, list.Projects, 1)

	w = alice.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = alice.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_NonOwnerForbidden(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signIn(t, "alice")
	bob := env.signIn(t, "bob")

	project := createProject(t, alice, "Alpha")
	path := fmt.Sprintf("/api/projects/%d", project.ID)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := bob.do(method, path, map[string]string{"name": "taken"})
		require.Equal(t, http.StatusForbidden, w.Code, method)
		assert.Equal(t, apierrors.ErrCodeForbidden, decode[apierrors.APIError](t, w).Code)
	}

	w := alice.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alpha", decode[dto.ProjectDTO](t, w).Name)

	w = bob.do(http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"projects":[]}`, w.Body.String())
}

func TestProjectHandler_NotFoundAndBadID(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signIn(t, "alice")

	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/api/projects/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodGet, "/api/projects/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodPost, "/api/projects", map[string]string{}).Code)
}
