package domain

import (
	"encoding/json"
	"time"
)

// AuditAction is the verb recorded in the audit trail.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
	AuditRefund AuditAction = "REFUND"
	AuditCancel AuditAction = "CANCEL"
	AuditUnlock AuditAction = "UNLOCK"
)

// AuditEntry is an immutable record of a change.
type AuditEntry struct {
	EntryID       string          `json:"entryID"`
	ActorID       string          `json:"actorID"`
	ActorUsername string          `json:"actorUsername"`
	Action        AuditAction     `json:"action"`
	TargetTable   string          `json:"targetTable"`
	TargetID      string          `json:"targetID"`
	Before        json.RawMessage `json:"before,omitempty"`
	After         json.RawMessage `json:"after,omitempty"`
	IPAddress     string          `json:"ipAddress"`
	UserAgent     string          `json:"userAgent"`
	RequestID     string          `json:"requestID"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	TargetTable *string
	TargetID    *string
	ActorID     *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
