package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Status enumerates the lifecycle states of a task. The state machine is
// fully connected: any status may be set to any other.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Task represents a user-owned activity item. UserID and CreatedAt never
// change after creation; only Status is mutable.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Task) IsDone() bool {
	return t != nil && t.Status == StatusDone
}

// NewTask validates and normalizes creation input. The title is trimmed and
// must stay within 1..MaxTitleLen characters; a whitespace-only description
// collapses to empty. New tasks always start pending.
func NewTask(userID, title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewError(ErrCodeInvalid, "title must not be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return nil, NewError(ErrCodeInvalid, "title exceeds 200 characters")
	}
	if strings.TrimSpace(description) == "" {
		description = ""
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return nil, NewError(ErrCodeInvalid, "description exceeds 1000 characters")
	}

	return &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      StatusPending,
	}, nil
}
