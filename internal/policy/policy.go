// Package policy decides whether an actor may perform an action on a
// project, task or comment. Policies are pure functions of the actor and
// the loaded resource.
package policy

import "github.com/yukikurage/project-task-api/internal/models"

// Action is an operation an actor attempts on a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorizer answers permission questions for any supported resource.
type Authorizer interface {
	Can(actorID uint64, action Action, resource any) bool
}

// Gate dispatches to the policy registered for the resource type.
// Unknown resource types are denied.
type Gate struct {
	Projects ProjectPolicy
	Tasks    TaskPolicy
	Comments CommentPolicy
}

// NewGate returns a Gate wired with the default policies.
func NewGate() *Gate {
	return &Gate{}
}

// Can reports whether actorID may perform action on resource.
func (g *Gate) Can(actorID uint64, action Action, resource any) bool {
	switch r := resource.(type) {
	case *models.Project:
		return r != nil && g.Projects.Allows(actorID, action, r)
	case *models.Task:
		return r != nil && g.Tasks.Allows(actorID, action, r)
	case *models.Comment:
		return r != nil && g.Comments.Allows(actorID, action, r)
	default:
		return false
	}
}

// ProjectPolicy grants every action to the project's owner only.
type ProjectPolicy struct{}

func (ProjectPolicy) Allows(actorID uint64, action Action, project *models.Project) bool {
	switch action {
	case ActionView, ActionUpdate, ActionDelete:
		return project.UserID != 0 && actorID == project.UserID
	}
	return false
}

// TaskPolicy grants every action to the owner of the task's project. The
// task's Project must be loaded.
type TaskPolicy struct{}

func (TaskPolicy) Allows(actorID uint64, action Action, task *models.Task) bool {
	switch action {
	case ActionView, ActionUpdate, ActionDelete:
		if task.Project.ID != task.ProjectID {
			return false
		}
		return task.Project.UserID != 0 && actorID == task.Project.UserID
	}
	return false
}

// CommentPolicy lets anyone who can view the parent task view or create
// comments; only the author may update or delete one.
type CommentPolicy struct {
	Tasks TaskPolicy
}

func (p CommentPolicy) Allows(actorID uint64, action Action, comment *models.Comment) bool {
	switch action {
	case ActionView, ActionCreate:
		if comment.Task.ID != comment.TaskID {
			return false
		}
		return p.Tasks.Allows(actorID, ActionView, &comment.Task)
	case ActionUpdate, ActionDelete:
		return comment.UserID != 0 && actorID == comment.UserID
	}
	return false
}
