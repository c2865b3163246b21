package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccessDenied  = "access.denied"
	EventTypeAccessGranted = "access.granted"
	EventTypeRolesChanged  = "user.roles_changed"
	// EventTypeProfileChanged covers account changes other than roles, such as a new employee link.
	EventTypeProfileChanged = "user.profile_changed"
)

// AccessDecision describes one authorization outcome worth auditing.
type AccessDecision struct {
	UserID      int64  `json:"user_id,omitempty"`
	Action      string `json:"action"`
	Requirement string `json:"requirement"`
	Reason      string `json:"reason"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	TraceID     string `json:"trace_id,omitempty"`
}

type AccessDecisionEvent struct {
	BaseEvent
	Decision AccessDecision `json:"decision"`
	Allowed  bool           `json:"allowed"`
}

func NewAccessDeniedEvent(d AccessDecision) *AccessDecisionEvent {
	return newAccessDecisionEvent(EventTypeAccessDenied, d, false)
}

func NewAccessGrantedEvent(d AccessDecision) *AccessDecisionEvent {
	return newAccessDecisionEvent(EventTypeAccessGranted, d, true)
}

func newAccessDecisionEvent(eventType string, d AccessDecision, allowed bool) *AccessDecisionEvent {
	return &AccessDecisionEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     d.UserID,
				"action":      d.Action,
				"requirement": d.Requirement,
				"reason":      d.Reason,
			},
		},
		Decision: d,
		Allowed:  allowed,
	}
}

type RolesChangedEvent struct {
	BaseEvent
	UserID    int64    `json:"user_id"`
	Roles     []string `json:"roles"`
	ChangedBy int64    `json:"changed_by"`
}

func NewRolesChangedEvent(userID int64, roles []string, changedBy int64) *RolesChangedEvent {
	return &RolesChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRolesChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"roles":      roles,
				"changed_by": changedBy,
			},
		},
		UserID:    userID,
		Roles:     roles,
		ChangedBy: changedBy,
	}
}

type ProfileChangedEvent struct {
	BaseEvent
	UserID    int64  `json:"user_id"`
	Change    string `json:"change"`
	ChangedBy int64  `json:"changed_by"`
}

func NewProfileChangedEvent(userID int64, change string, changedBy int64) *ProfileChangedEvent {
	return &ProfileChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeProfileChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"change":     change,
				"changed_by": changedBy,
			},
		},
		UserID:    userID,
		Change:    change,
		ChangedBy: changedBy,
	}
}
