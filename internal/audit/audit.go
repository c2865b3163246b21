package audit

import (
	"time"

	auditModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/audit"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
)

// Entry is one queued access decision. It travels through redis as JSON.
type Entry struct {
	EventID     string    `json:"event_id"`
	UserID      int64     `json:"user_id,omitempty"`
	Decision    string    `json:"decision"`
	Action      string    `json:"action"`
	Requirement string    `json:"requirement,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Method      string    `json:"method,omitempty"`
	Path        string    `json:"path,omitempty"`
	TraceID     string    `json:"trace_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func EntryFromEvent(e *events.AccessDecisionEvent) Entry {
	decision := auditModel.DecisionDenied
	if e.Allowed {
		decision = auditModel.DecisionGranted
	}
	return Entry{
		EventID:     e.EventID(),
		UserID:      e.Decision.UserID,
		Decision:    decision,
		Action:      e.Decision.Action,
		Requirement: e.Decision.Requirement,
		Reason:      e.Decision.Reason,
		Method:      e.Decision.Method,
		Path:        e.Decision.Path,
		TraceID:     e.Decision.TraceID,
		OccurredAt:  e.OccurredAt(),
	}
}

func (e Entry) DataModel() *auditModel.AccessAuditLog {
	row := &auditModel.AccessAuditLog{
		EventID:     e.EventID,
		Decision:    e.Decision,
		Action:      e.Action,
		Requirement: e.Requirement,
		Reason:      e.Reason,
		Method:      e.Method,
		Path:        e.Path,
		TraceID:     e.TraceID,
		OccurredAt:  e.OccurredAt,
	}
	if e.UserID != 0 {
		uid := e.UserID
		row.UserID = &uid
	}
	return row
}

type Log struct {
	ID          int64     `json:"id"`
	EventID     string    `json:"event_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Decision    string    `json:"decision"`
	Action      string    `json:"action"`
	Requirement string    `json:"requirement,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Method      string    `json:"method,omitempty"`
	Path        string    `json:"path,omitempty"`
	TraceID     string    `json:"trace_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func FromDataModel(row *auditModel.AccessAuditLog) *Log {
	return &Log{
		ID:          row.ID,
		EventID:     row.EventID,
		UserID:      row.UserID,
		Decision:    row.Decision,
		Action:      row.Action,
		Requirement: row.Requirement,
		Reason:      row.Reason,
		Method:      row.Method,
		Path:        row.Path,
		TraceID:     row.TraceID,
		OccurredAt:  row.OccurredAt,
	}
}

type ListFilter struct {
	Decision string
	UserID   *int64
	Action   string
	From     *time.Time
	To       *time.Time
}
