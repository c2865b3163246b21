package workposition

import (
	"time"

	workpositionModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/workposition"
	"github.com/shopspring/decimal"
)

type WorkPosition struct {
	ID          int64            `json:"id"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Level       int              `json:"level"`
	LevelName   string           `json:"level_name"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// LevelName labels a position level; unknown levels read as "Unknown".
func LevelName(level int) string {
	switch level {
	case workpositionModel.LevelStaff:
		return "Staff"
	case workpositionModel.LevelLeader:
		return "Leader"
	case workpositionModel.LevelManager:
		return "Manager"
	case workpositionModel.LevelDirector:
		return "Director"
	default:
		return "Unknown"
	}
}

func ValidLevel(level int) bool {
	return level >= workpositionModel.LevelStaff && level <= workpositionModel.LevelDirector
}

func FromDataModel(p *workpositionModel.WorkPosition) *WorkPosition {
	out := &WorkPosition{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Level:       p.Level,
		LevelName:   LevelName(p.Level),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.BaseSalary.Valid {
		salary := p.BaseSalary.Decimal
		out.BaseSalary = &salary
	}
	return out
}
