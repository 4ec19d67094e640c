package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency defines how often a periodic task produces a new instance.
type Frequency string

// Supported template frequencies.
const (
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// Source labels recorded in the history of generated tasks.
const (
	SourceWeekly  = "Recurrente (Semanal)"
	SourceMonthly = "Recurrente (Mensual)"
)

// Calendar bounds. Days follow time.Weekday (Sunday=0), months are zero-based (January=0).
const (
	MinDayOfWeek = 0
	MaxDayOfWeek = 6
	MinMonth     = 0
	MaxMonth     = 11
)

// PeriodicTask is a recurring-task template. On its due day (weekly) or month (monthly)
// exactly one Task is generated from it per period.
type PeriodicTask struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Size        TaskSize  `json:"size"`
	Frequency   Frequency `json:"frequency"`
	DayOfWeek   *int      `json:"dayOfWeek"`
	MonthOfYear *int      `json:"monthOfYear"`

	// ActiveFromMonth and ActiveToMonth restrict a weekly template to part of the year.
	// The range may wrap around the year boundary (e.g. November to February).
	ActiveFromMonth *int `json:"activeFromMonth"`
	ActiveToMonth   *int `json:"activeToMonth"`

	CategoryID      uuid.UUID  `json:"categoryId"`
	AssignedToID    *uuid.UUID `json:"assignedToId"`
	LastGeneratedAt *time.Time `json:"lastGeneratedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PeriodicTaskView is a template with its category and assignee resolved for display.
type PeriodicTaskView struct {
	PeriodicTask
	Category   *Category    `json:"category"`
	AssignedTo *UserSummary `json:"assignedTo"`
}

// NewPeriodicTask builds a normalized, validated template with a fresh ID.
func NewPeriodicTask(pt PeriodicTask) (*PeriodicTask, error) {
	now := time.Now().UTC()
	pt.ID = uuid.New()
	pt.CreatedAt = now
	pt.UpdatedAt = now
	pt.LastGeneratedAt = nil
	if pt.Size == "" {
		pt.Size = TaskSizeSmall
	}
	pt.Normalize()

	if err := pt.Validate(); err != nil {
		return nil, err
	}
	return &pt, nil
}

// Normalize trims text fields and clears the selectors that do not apply to the
// template's frequency, so that exactly one of DayOfWeek and MonthOfYear remains.
func (p *PeriodicTask) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = trimOptional(p.Description)

	switch p.Frequency {
	case FrequencyWeekly:
		p.MonthOfYear = nil
	case FrequencyMonthly:
		p.DayOfWeek = nil
		p.ActiveFromMonth = nil
		p.ActiveToMonth = nil
	}
}

// Validate checks the template invariants.
func (p *PeriodicTask) Validate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidID
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if !p.Size.Valid() {
		return ErrInvalidSize
	}
	if p.CategoryID == uuid.Nil {
		return ErrEmptyCategory
	}

	switch p.Frequency {
	case FrequencyWeekly:
		if p.DayOfWeek == nil || *p.DayOfWeek < MinDayOfWeek || *p.DayOfWeek > MaxDayOfWeek {
			return ErrInvalidDayOfWeek
		}
		if p.MonthOfYear != nil {
			return ErrInvalidMonthOfYear
		}
		if !validMonthPtr(p.ActiveFromMonth) || !validMonthPtr(p.ActiveToMonth) {
			return ErrInvalidActiveRange
		}
	case FrequencyMonthly:
		if p.MonthOfYear == nil || *p.MonthOfYear < MinMonth || *p.MonthOfYear > MaxMonth {
			return ErrInvalidMonthOfYear
		}
		if p.DayOfWeek != nil {
			return ErrInvalidDayOfWeek
		}
	default:
		return ErrInvalidFrequency
	}

	return nil
}

// SourceLabel returns the history label for tasks generated from this template.
func (p *PeriodicTask) SourceLabel() string {
	if p.Frequency == FrequencyMonthly {
		return SourceMonthly
	}
	return SourceWeekly
}

// GeneratedSince reports whether the template has already produced an instance at or
// after threshold.
func (p *PeriodicTask) GeneratedSince(threshold time.Time) bool {
	return p.LastGeneratedAt != nil && !p.LastGeneratedAt.Before(threshold)
}

// NewInstance builds the Task generated from this template at now, attributed
// to createdBy.
func (p *PeriodicTask) NewInstance(createdBy uuid.UUID, now time.Time) *Task {
	now = now.UTC()
	templateID := p.ID
	categoryID := p.CategoryID

	return &Task{
		ID:             uuid.New(),
		Title:          p.Title,
		Description:    copyString(p.Description),
		Size:           p.Size,
		Status:         TaskStatusNew,
		CategoryID:     &categoryID,
		AssignedToID:   copyUUID(p.AssignedToID),
		PeriodicTaskID: &templateID,
		CreatedByID:    createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsMonthInActiveRange reports whether month (0-11) falls inside the seasonal window
// [from, to]. A nil bound defaults to January (from) or December (to); both nil means
// the whole year. When from > to the window wraps around the year boundary.
func IsMonthInActiveRange(month int, from, to *int) bool {
	if from == nil && to == nil {
		return true
	}

	lo, hi := MinMonth, MaxMonth
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}

	if lo <= hi {
		return month >= lo && month <= hi
	}
	return month >= lo || month <= hi
}

func validMonthPtr(m *int) bool {
	return m == nil || (*m >= MinMonth && *m <= MaxMonth)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
