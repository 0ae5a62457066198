package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool { return r == RoleManager || r == RoleEmployee }

type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	Role          Role      `gorm:"size:16;not null;default:employee;index" json:"role"`
	AssignedTasks []string  `gorm:"-" json:"assignedTasks"`
	IsDeleted     bool      `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Assignment is one row of a user's assignedTasks set.
type Assignment struct {
	UserID    string    `gorm:"primaryKey;size:36"`
	TaskID    string    `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Assignment) TableName() string { return "user_assigned_tasks" }

// UserTasks is a user with assignedTasks resolved to live task records.
type UserTasks struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	AssignedTasks []Task    `json:"assignedTasks"`
	IsDeleted     bool      `json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindActive(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, q ListQuery) ([]User, error)
	Update(ctx context.Context, id string, patch map[string]any) (*User, error)
	AddTask(ctx context.Context, userID, taskID string) error
	RemoveTask(ctx context.Context, userID, taskID string) error
	Browse(ctx context.Context, q BrowseQuery) ([]User, int64, error)
}
