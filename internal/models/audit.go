package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditReportDeleted  AuditAction = "report.deleted"
	AuditReportRestored AuditAction = "report.restored"
	AuditReportPurged   AuditAction = "report.purged"
	AuditReportsBulk    AuditAction = "report.bulk"
	AuditProfileStatus  AuditAction = "profile.status"
	AuditProfileRole    AuditAction = "profile.role"
	AuditProfileDeleted AuditAction = "profile.deleted"
)

// AuditEntry records one administrative action.
type AuditEntry struct {
	ID         uuid.UUID   `json:"id"`
	ActorUID   string      `json:"actorUid"`
	Action     AuditAction `json:"action"`
	TargetType string      `json:"targetType"`
	TargetID   string      `json:"targetId"`
	Detail     string      `json:"detail,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}
