package workposition

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LevelStaff    = 1
	LevelLeader   = 2
	LevelManager  = 3
	LevelDirector = 4
)

type WorkPosition struct {
	ID          int64               `gorm:"primaryKey"`
	Code        string              `gorm:"column:code;uniqueIndex;size:15;not null"`
	Name        string              `gorm:"column:name;size:255;not null"`
	Description string              `gorm:"column:description;size:500"`
	Level       int                 `gorm:"column:level;not null;default:1"`
	BaseSalary  decimal.NullDecimal `gorm:"column:base_salary;type:numeric(15,2)"`
	IsActive    bool                `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (WorkPosition) TableName() string { return "work_positions" }
