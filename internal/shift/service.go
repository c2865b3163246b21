package shift

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/staff-attendance/internal"
	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
)

type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*shiftModel.Shift, error)
	ListByType(ctx context.Context, t shiftModel.Type) ([]*shiftModel.Shift, error)
	GetByID(ctx context.Context, id int64) (*shiftModel.Shift, error)
	Create(ctx context.Context, s *shiftModel.Shift) error
	Update(ctx context.Context, s *shiftModel.Shift) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*Shift, error) {
	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list shifts", "error", err)
		return nil, internal.NewInternalError("failed to list shifts", err)
	}
	return convert(rows), nil
}

func (s *Service) ListActive(ctx context.Context) ([]*Shift, error) {
	return s.List(ctx, false)
}

// ListByType returns active shifts of one type.
func (s *Service) ListByType(ctx context.Context, t shiftModel.Type) ([]*Shift, error) {
	if !t.Valid() {
		return nil, internal.NewValidationFieldError("type", "type must be between 1 and 4", internal.ErrCodeValidationFailed)
	}
	rows, err := s.repo.ListByType(ctx, t)
	if err != nil {
		return nil, internal.NewInternalError("failed to list shifts", err)
	}
	return convert(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Shift, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto ShiftDTO) (*Shift, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &shiftModel.Shift{IsActive: true}
	dto.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create shift", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create shift", err)
	}

	s.logger.InfoContext(ctx, "shift created", "shift_id", row.ID, "type", row.Type.String())
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto ShiftDTO) (*Shift, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update shift", "error", err, "shift_id", id)
		return nil, internal.NewInternalError("failed to update shift", err)
	}

	s.logger.InfoContext(ctx, "shift updated", "shift_id", id)
	return FromDataModel(row), nil
}

func (s *Service) find(ctx context.Context, id int64) (*shiftModel.Shift, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get shift", err)
	}
	if row == nil {
		return nil, internal.ErrShiftNotFound
	}
	return row, nil
}

func convert(rows []*shiftModel.Shift) []*Shift {
	out := make([]*Shift, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
