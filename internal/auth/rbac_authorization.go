package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/access"
	"github.com/frahmantamala/staff-attendance/internal/core/events"
	"github.com/frahmantamala/staff-attendance/internal/transport"
)

// RBACAuthorization applies access decisions at the HTTP edge and inside services.
// Denials are logged and published as access.denied events.
type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer *access.Authorizer
	publisher  events.Publisher
	logger     *slog.Logger

	// RecordGranted also publishes access.granted for every allowed check.
	RecordGranted bool
}

func NewRBACAuthorization(authorizer *access.Authorizer, publisher events.Publisher, logger *slog.Logger) *RBACAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
		publisher:   publisher,
		logger:      logger,
	}
}

func (ra *RBACAuthorization) Authorizer() *access.Authorizer { return ra.authorizer }

// RequirePermission rejects requests whose principal lacks code.
// Unknown codes panic at route registration.
func (ra *RBACAuthorization) RequirePermission(code string) func(http.Handler) http.Handler {
	ra.authorizer.MustKnowPermission(code)
	return ra.guard("permission", code, func(ac *access.AccessContext) access.Decision {
		if ra.authorizer.Authorize(ac, code) {
			return access.Decision{Allowed: true, Reason: "has permission " + code}
		}
		return access.Decision{Reason: "missing permission " + code}
	})
}

// RequireAnyPermission passes when at least one of codes is held.
func (ra *RBACAuthorization) RequireAnyPermission(codes ...string) func(http.Handler) http.Handler {
	for _, code := range codes {
		ra.authorizer.MustKnowPermission(code)
	}
	requirement := joinCodes(codes)
	return ra.guard("permission", requirement, func(ac *access.AccessContext) access.Decision {
		for _, code := range codes {
			if ra.authorizer.Authorize(ac, code) {
				return access.Decision{Allowed: true, Reason: "has permission " + code}
			}
		}
		return access.Decision{Reason: "missing any of " + requirement}
	})
}

// RequireMinimumRole rejects principals ranked below role.
func (ra *RBACAuthorization) RequireMinimumRole(role string) func(http.Handler) http.Handler {
	ra.authorizer.MustKnowRole(role)
	return ra.guard("role", role, func(ac *access.AccessContext) access.Decision {
		if ra.authorizer.AuthorizeRole(ac, role) {
			return access.Decision{Allowed: true, Reason: "ranked at or above " + role}
		}
		return access.Decision{Reason: "ranked below " + role}
	})
}

func (ra *RBACAuthorization) guard(action, requirement string, decide func(*access.AccessContext) access.Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := access.FromContext(r.Context())
			if !ok {
				ra.logger.WarnContext(r.Context(), "authorization check failed: no access context", "path", r.URL.Path)
				ra.HandleServiceError(w, internal.ErrNoAccessContext)
				return
			}

			decision := decide(ac)
			record := events.AccessDecision{
				Action:      action,
				Requirement: requirement,
				Reason:      decision.Reason,
				Method:      r.Method,
				Path:        r.URL.Path,
			}
			if !decision.Allowed {
				ra.HandleServiceError(w, ra.denied(r.Context(), record))
				return
			}
			ra.granted(r.Context(), record)
			next.ServeHTTP(w, r)
		})
	}
}

// AccessContext returns the caller's context or ErrNoAccessContext.
func (ra *RBACAuthorization) AccessContext(ctx context.Context) (*access.AccessContext, error) {
	ac, ok := access.FromContext(ctx)
	if !ok {
		return nil, internal.ErrNoAccessContext
	}
	return ac, nil
}

func (ra *RBACAuthorization) CheckPermission(ctx context.Context, code string) error {
	ac, err := ra.AccessContext(ctx)
	if err != nil {
		return err
	}
	record := events.AccessDecision{Action: "permission", Requirement: code}
	if !ra.authorizer.Authorize(ac, code) {
		record.Reason = "missing permission " + code
		return ra.denied(ctx, record)
	}
	record.Reason = "has permission " + code
	ra.granted(ctx, record)
	return nil
}

// CheckScope verifies the caller may read or write the target record.
func (ra *RBACAuthorization) CheckScope(ctx context.Context, target access.Target, mode access.Mode, action string) error {
	ac, err := ra.AccessContext(ctx)
	if err != nil {
		return err
	}
	decision := ra.authorizer.Explain(ac, target, mode)
	return ra.settle(ctx, decision, events.AccessDecision{Action: action, Requirement: "scope:" + mode.String()})
}

// CheckSchedule verifies the caller may create schedules for the employee target.
func (ra *RBACAuthorization) CheckSchedule(ctx context.Context, employee access.Target, action string) error {
	ac, err := ra.AccessContext(ctx)
	if err != nil {
		return err
	}
	decision := ra.authorizer.ExplainSchedule(ac, employee)
	return ra.settle(ctx, decision, events.AccessDecision{Action: action, Requirement: "scope:schedule"})
}

// ListingScope resolves how much of a collection the caller may list.
func (ra *RBACAuthorization) ListingScope(ctx context.Context) (access.ScopeDecision, error) {
	ac, err := ra.AccessContext(ctx)
	if err != nil {
		return access.Denied(), err
	}
	return ra.authorizer.ResolveListingScope(ac), nil
}

func (ra *RBACAuthorization) settle(ctx context.Context, decision access.Decision, record events.AccessDecision) error {
	record.Reason = decision.Reason
	if !decision.Allowed {
		return ra.denied(ctx, record)
	}
	ra.granted(ctx, record)
	return nil
}

func (ra *RBACAuthorization) denied(ctx context.Context, record events.AccessDecision) error {
	record.UserID, _ = internal.UserIDFromContext(ctx)
	record.TraceID = internal.TraceIDFromContext(ctx)

	ra.logger.WarnContext(ctx, "access denied",
		"user_id", record.UserID,
		"action", record.Action,
		"requirement", record.Requirement,
		"reason", record.Reason)

	ra.publish(ctx, events.NewAccessDeniedEvent(record))
	return internal.ErrAccessDenied
}

func (ra *RBACAuthorization) granted(ctx context.Context, record events.AccessDecision) {
	if !ra.RecordGranted {
		return
	}
	record.UserID, _ = internal.UserIDFromContext(ctx)
	record.TraceID = internal.TraceIDFromContext(ctx)
	ra.publish(ctx, events.NewAccessGrantedEvent(record))
}

func (ra *RBACAuthorization) publish(ctx context.Context, event events.Event) {
	if ra.publisher == nil {
		return
	}
	if err := ra.publisher.Publish(ctx, event); err != nil {
		ra.logger.ErrorContext(ctx, "failed to publish access event", "event_type", event.EventType(), "error", err)
	}
}

func joinCodes(codes []string) string {
	return strings.Join(codes, "|")
}
