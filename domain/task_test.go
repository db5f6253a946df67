package domain

import (
	"strings"
	"testing"
)

func TestNewTask(t *testing.T) {
	task, err := NewTask("u1", "  Buy milk  ", "from the corner shop")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("title = %q, want trimmed %q", task.Title, "Buy milk")
	}
	if task.Description != "from the corner shop" {
		t.Errorf("description = %q", task.Description)
	}
	if task.Status != StatusPending {
		t.Errorf("status = %q, want %q", task.Status, StatusPending)
	}
	if task.UserID != "u1" {
		t.Errorf("user id = %q", task.UserID)
	}
}

func TestNewTaskRejectsEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := NewTask("u1", title, ""); err == nil {
			t.Errorf("NewTask(%q) should fail", title)
		} else if !IsDomainError(err, ErrCodeInvalid) {
			t.Errorf("NewTask(%q) error should be INVALID, got %v", title, err)
		}
	}
}

func TestNewTaskTitleBoundary(t *testing.T) {
	atLimit := strings.Repeat("a", MaxTitleLen)
	if _, err := NewTask("u1", atLimit, ""); err != nil {
		t.Errorf("title of exactly %d chars should pass: %v", MaxTitleLen, err)
	}

	over := strings.Repeat("a", MaxTitleLen+1)
	if _, err := NewTask("u1", over, ""); err == nil {
		t.Errorf("title of %d chars should fail", MaxTitleLen+1)
	}
}

func TestNewTaskTitleCountsRunesNotBytes(t *testing.T) {
	// 200 multibyte runes are within the limit even though the byte length is not.
	title := strings.Repeat("ä", MaxTitleLen)
	if _, err := NewTask("u1", title, ""); err != nil {
		t.Errorf("200-rune multibyte title should pass: %v", err)
	}
}

func TestNewTaskDescriptionBoundary(t *testing.T) {
	if _, err := NewTask("u1", "ok", strings.Repeat("d", MaxDescriptionLen)); err != nil {
		t.Errorf("description of exactly %d chars should pass: %v", MaxDescriptionLen, err)
	}
	if _, err := NewTask("u1", "ok", strings.Repeat("d", MaxDescriptionLen+1)); err == nil {
		t.Errorf("description of %d chars should fail", MaxDescriptionLen+1)
	}
}

func TestNewTaskBlankDescriptionCollapses(t *testing.T) {
	task, err := NewTask("u1", "ok", "   \t ")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Description != "" {
		t.Errorf("description = %q, want empty", task.Description)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusDone} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Status{"", "archived", "PENDING", "Done"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
