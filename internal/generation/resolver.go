package generation

import (
	"bytes"
	"slices"
	"time"

	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// DueTemplate is a template that owes an instance for the current period.
type DueTemplate struct {
	Template *domain.PeriodicTask
	// Source is the history label recorded on the generated task.
	Source string
	// Threshold is the start of the period; an instance generated at or after
	// it satisfies the template.
	Threshold time.Time
}

// DueSet is the result of ResolveDue.
type DueSet struct {
	Now          time.Time
	StartOfDay   time.Time
	StartOfMonth time.Time
	// Items are ordered by template ID.
	Items []DueTemplate
}

// Threshold returns the period start that applies to templates of frequency f.
func (d DueSet) Threshold(f domain.Frequency) time.Time {
	if f == domain.FrequencyMonthly {
		return d.StartOfMonth
	}
	return d.StartOfDay
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first instant of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// ResolveDue returns the templates due at now. Calendar fields are evaluated in
// now's location, so callers pass now already converted to the household zone.
//
// A weekly template is due when now falls on its weekday, the current month is
// inside its active range, and it has not been generated since midnight. A
// monthly template is due when now falls in its month and it has not been
// generated since the first of the month; the active range does not apply.
func ResolveDue(now time.Time, templates []*domain.PeriodicTask) DueSet {
	set := DueSet{
		Now:          now,
		StartOfDay:   StartOfDay(now),
		StartOfMonth: StartOfMonth(now),
	}

	for _, t := range templates {
		if t == nil || !isDue(t, set) {
			continue
		}
		set.Items = append(set.Items, DueTemplate{
			Template:  t,
			Source:    t.SourceLabel(),
			Threshold: set.Threshold(t.Frequency),
		})
	}

	slices.SortFunc(set.Items, func(a, b DueTemplate) int {
		return bytes.Compare(a.Template.ID[:], b.Template.ID[:])
	})
	return set
}

func isDue(t *domain.PeriodicTask, set DueSet) bool {
	weekday := int(set.Now.Weekday())
	month := int(set.Now.Month()) - 1

	switch t.Frequency {
	case domain.FrequencyWeekly:
		return t.DayOfWeek != nil &&
			*t.DayOfWeek == weekday &&
			domain.IsMonthInActiveRange(month, t.ActiveFromMonth, t.ActiveToMonth) &&
			!t.GeneratedSince(set.StartOfDay)
	case domain.FrequencyMonthly:
		return t.MonthOfYear != nil &&
			*t.MonthOfYear == month &&
			!t.GeneratedSince(set.StartOfMonth)
	default:
		return false
	}
}
