package models

import (
	"sort"
	"time"
)

// Task priorities.
const (
	PriorityNormal = "Normal"
	PriorityHigh   = "High"
)

// Task statuses. A task starts as StatusNew and can be toggled back and forth
// indefinitely.
const (
	StatusNew       = "new"
	StatusCompleted = "completed"
)

// DateLayout is the short creation-date label stamped on tasks ("Oct 18").
const DateLayout = "Jan 2"

// Workspace roles reported to the caller.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPublic is the identity returned to clients and resolved from tokens.
type UserPublic struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name}
}

type PersonalTask struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Priority string `json:"priority"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	UserID   int    `json:"user_id"`
}

type Workspace struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	OwnerID   int    `json:"-"`
	OwnerName string `json:"owner"`
}

type Membership struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"workspace_id"`
	UserID      int    `json:"-"`
	Member      string `json:"member"`
}

// WorkspaceView is a workspace together with its roster, as seen by one caller.
type WorkspaceView struct {
	WorkspaceID int      `json:"workspace_id"`
	Name        string   `json:"name"`
	Owner       string   `json:"owner"`
	Role        string   `json:"role"`
	Members     []string `json:"members"`
}

type SharedTask struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Priority    string `json:"priority"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
	WorkspaceID int    `json:"workspace_id"`
}

// TaskPatch carries the fields present in a partial update.
type TaskPatch struct {
	Name     *string `json:"name,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Date     *string `json:"date,omitempty"`
	Status   *string `json:"status,omitempty"`
}

func ValidPriority(p string) bool {
	return p == PriorityNormal || p == PriorityHigh
}

func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusCompleted
}

// ToggledStatus returns the opposite state of s.
func ToggledStatus(s string) string {
	if s == StatusCompleted {
		return StatusNew
	}
	return StatusCompleted
}

// SortCompletedLast orders incomplete tasks before completed ones, by id
// within each group.
func SortCompletedLast[T any](tasks []T, status func(T) string, id func(T) int) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ci, cj := status(tasks[i]) == StatusCompleted, status(tasks[j]) == StatusCompleted
		if ci != cj {
			return !ci
		}
		return id(tasks[i]) < id(tasks[j])
	})
}
