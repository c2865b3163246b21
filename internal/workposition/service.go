package workposition

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/staff-attendance/internal"
	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
)

type RepositoryAPI interface {
	List(ctx context.Context, includeInactive bool) ([]*workpositionModel.WorkPosition, error)
	ListByLevel(ctx context.Context, level int) ([]*workpositionModel.WorkPosition, error)
	GetByID(ctx context.Context, id int64) (*workpositionModel.WorkPosition, error)
	GetByCode(ctx context.Context, code string) (*workpositionModel.WorkPosition, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, p *workpositionModel.WorkPosition) error
	Update(ctx context.Context, p *workpositionModel.WorkPosition) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*WorkPosition, error) {
	rows, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list work positions", "error", err)
		return nil, internal.NewInternalError("failed to list work positions", err)
	}
	return convert(rows), nil
}

func (s *Service) ListByLevel(ctx context.Context, level int) ([]*WorkPosition, error) {
	if !ValidLevel(level) {
		return nil, internal.NewValidationFieldError("level", "level must be between 1 and 4", internal.ErrCodeInvalidLevel)
	}
	rows, err := s.repo.ListByLevel(ctx, level)
	if err != nil {
		return nil, internal.NewInternalError("failed to list work positions", err)
	}
	return convert(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*WorkPosition, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get work position", err)
	}
	if row == nil {
		return nil, internal.ErrPositionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*WorkPosition, error) {
	row, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, internal.NewInternalError("failed to get work position", err)
	}
	if row == nil {
		return nil, internal.ErrPositionNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto WorkPositionDTO) (*WorkPosition, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, dto.Code, 0); err != nil {
		return nil, err
	}

	row := &workpositionModel.WorkPosition{IsActive: true}
	dto.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to create work position", "error", err, "code", dto.Code)
		return nil, internal.NewInternalError("failed to create work position", err)
	}

	s.logger.InfoContext(ctx, "work position created", "position_id", row.ID, "level", row.Level)
	return FromDataModel(row), nil
}

// Update rewrites the position. A level change moves every holder's scope
// attributes with it on their next login.
func (s *Service) Update(ctx context.Context, id int64, dto WorkPositionDTO) (*WorkPosition, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get work position", err)
	}
	if row == nil {
		return nil, internal.ErrPositionNotFound
	}
	if dto.Code != row.Code {
		if err := s.ensureCodeFree(ctx, dto.Code, id); err != nil {
			return nil, err
		}
	}

	previousLevel := row.Level
	dto.apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.ErrorContext(ctx, "failed to update work position", "error", err, "position_id", id)
		return nil, internal.NewInternalError("failed to update work position", err)
	}

	if previousLevel != row.Level {
		s.logger.InfoContext(ctx, "work position level changed", "position_id", id, "from", previousLevel, "to", row.Level)
	}
	return FromDataModel(row), nil
}

func (s *Service) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.repo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return internal.NewInternalError("failed to check work position code", err)
	}
	if exists {
		return internal.NewConflictError("Work position code already exists", internal.ErrCodeDuplicateCode)
	}
	return nil
}

func convert(rows []*workpositionModel.WorkPosition) []*WorkPosition {
	out := make([]*WorkPosition, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
