package domain

import (
	"context"
	"time"
)

type TaskStatus string

const (
	StatusUnset   TaskStatus = ""
	StatusPending TaskStatus = "pending"
	StatusWorking TaskStatus = "working"
	StatusReview  TaskStatus = "review"
	StatusDone    TaskStatus = "done"
	StatusArchive TaskStatus = "archive"
)

var TaskStatuses = []TaskStatus{StatusPending, StatusWorking, StatusReview, StatusDone, StatusArchive}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"size:255;not null;index" json:"name"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus `gorm:"size:16;index" json:"status,omitempty"`
	AssigneeID  *string    `gorm:"size:36;index" json:"assignee"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// TaskUpdate is a partial update; empty strings count as absent.
type TaskUpdate struct {
	Name        string
	Description string
	Status      TaskStatus
}

func (u TaskUpdate) Empty() bool {
	return u.Name == "" && u.Description == "" && u.Status == StatusUnset
}

// CheckTransition reports whether a task in status current may receive
// an update whose requested status is next (StatusUnset when absent).
// Once done, only archive is accepted; archive only accepts archive.
func CheckTransition(current, next TaskStatus) error {
	switch {
	case current == StatusDone && next != StatusArchive:
		return InvalidTransition("Completed task can only be archived!")
	case current == StatusArchive && next != StatusArchive:
		return InvalidTransition("Task has already been archived!")
	}
	return nil
}

// TaskView is a task with its assignee resolved. Its "assignee" key shadows
// the id-valued one of the embedded Task.
type TaskView struct {
	Task
	Assignee *User `json:"assignee"`
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindActive(ctx context.Context, id string) (*Task, error)
	// LockActive is FindActive holding a row lock until the surrounding
	// transaction ends.
	LockActive(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, q ListQuery) ([]Task, error)
	Update(ctx context.Context, id string, patch map[string]any) (*Task, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]Task, error)
	Browse(ctx context.Context, q BrowseQuery) ([]Task, int64, error)
}
