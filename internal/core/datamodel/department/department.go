package department

import "time"

type Department struct {
	ID          int64     `gorm:"primaryKey"`
	Code        string    `gorm:"column:code;uniqueIndex;size:20;not null"`
	Name        string    `gorm:"column:name;size:255;not null"`
	Description string    `gorm:"column:description"`
	LeaderID    *int64    `gorm:"column:leader_id"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string { return "departments" }
