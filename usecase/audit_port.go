package usecase

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// Audit action names shared by use cases and the recorder.
const (
	ActionCreate       = "create"
	ActionUpdateStatus = "update_status"
	ActionDelete       = "delete"
	ActionRegister     = "register"
	ActionLogin        = "login"
	ActionLogout       = "logout"
)

// AuditRecorder abstracts the audit trail so use cases stay storage-agnostic.
// Recording is fire-and-forget: a failed write never fails the operation.
type AuditRecorder interface {
	RecordTask(ctx context.Context, action string, task *domain.Task)
	RecordAuth(ctx context.Context, action, userID string)
}
