package audit

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/staff-attendance/internal"
	auditModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/audit"
)

type RepositoryAPI interface {
	Writer
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*auditModel.AccessAuditLog, int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Log, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list audit logs", "error", err)
		return nil, 0, internal.NewInternalError("failed to list audit logs", err)
	}

	out := make([]*Log, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (f ListFilter) Validate() error {
	switch f.Decision {
	case "", auditModel.DecisionDenied, auditModel.DecisionGranted:
	default:
		return internal.NewValidationFieldError("decision", "decision must be denied or granted", internal.ErrCodeValidationFailed)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return internal.NewValidationFieldError("to", "to must not be before from", internal.ErrCodeInvalidDate)
	}
	return nil
}
