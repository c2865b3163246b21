package shift

import (
	"fmt"
	"time"

	shiftModel "github.com/frahmantamala/staff-attendance/internal/core/datamodel/shift"
)

const (
	clockLayout = "15:04"
	// MinimumRegularHours is the shortest span a non-overtime shift may cover.
	MinimumRegularHours = 8
)

type Shift struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        shiftModel.Type `json:"type"`
	TypeName    string          `json:"type_name"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Hours       float64         `json:"hours"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func FromDataModel(s *shiftModel.Shift) *Shift {
	out := &Shift{
		ID:          s.ID,
		Name:        s.Name,
		Type:        s.Type,
		TypeName:    s.Type.String(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if d, err := Span(s.StartTime, s.EndTime); err == nil {
		out.Hours = d.Hours()
	}
	return out
}

// ParseClock parses an HH:MM wall clock time into an offset from midnight.
func ParseClock(value string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Span is the length of a shift. An end at or before the start wraps past midnight.
func Span(start, end string) (time.Duration, error) {
	from, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if to <= from {
		to += 24 * time.Hour
	}
	return to - from, nil
}

// LongEnough reports whether the shift satisfies the minimum length for its type.
func LongEnough(t shiftModel.Type, span time.Duration) bool {
	if t == shiftModel.TypeOvertime {
		return true
	}
	return span >= MinimumRegularHours*time.Hour
}
