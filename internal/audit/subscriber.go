package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/staff-attendance/internal/core/events"
)

// Subscriber turns access decision events into audit entries.
type Subscriber struct {
	sink   Sink
	logger *slog.Logger
}

func NewSubscriber(sink Sink, logger *slog.Logger) *Subscriber {
	return &Subscriber{sink: sink, logger: logger}
}

func (s *Subscriber) HandleAccessDecision(ctx context.Context, event events.Event) error {
	decision, ok := event.(*events.AccessDecisionEvent)
	if !ok {
		s.logger.Error("invalid event type for audit handler", "event_type", event.EventType())
		return fmt.Errorf("expected AccessDecisionEvent, got %T", event)
	}

	if err := s.sink.Enqueue(ctx, EntryFromEvent(decision)); err != nil {
		// the recorder already warned about the drop
		if errors.Is(err, ErrQueueFull) {
			return nil
		}
		s.logger.ErrorContext(ctx, "failed to queue audit entry", "error", err, "event_id", decision.EventID())
		return err
	}
	return nil
}

func (s *Subscriber) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeAccessDenied, s.HandleAccessDecision)
	eventBus.Subscribe(events.EventTypeAccessGranted, s.HandleAccessDecision)

	s.logger.Info("audit event handlers registered",
		"handlers", []string{events.EventTypeAccessDenied, events.EventTypeAccessGranted})
}
