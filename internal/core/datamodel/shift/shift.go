package shift

import "time"

type Type int

const (
	TypeMorning   Type = 1
	TypeAfternoon Type = 2
	TypeNight     Type = 3
	TypeOvertime  Type = 4
)

func (t Type) Valid() bool {
	return t >= TypeMorning && t <= TypeOvertime
}

func (t Type) String() string {
	switch t {
	case TypeMorning:
		return "Morning"
	case TypeAfternoon:
		return "Afternoon"
	case TypeNight:
		return "Night"
	case TypeOvertime:
		return "Overtime"
	default:
		return "Unknown"
	}
}

// Shift start and end are wall clock times formatted HH:MM.
type Shift struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:50;not null"`
	Type        Type      `gorm:"column:type;not null"`
	StartTime   string    `gorm:"column:start_time;size:5;not null"`
	EndTime     string    `gorm:"column:end_time;size:5;not null"`
	Description string    `gorm:"column:description;size:255"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shift) TableName() string { return "shifts" }
