package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/store"
)

// Scoreboard periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Score is one user's line on the scoreboard.
type Score struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ShortName   *string   `json:"shortName"`
	Color       *string   `json:"color"`
	Picture     *string   `json:"picture"`
	TaskCount   int       `json:"taskCount"`
	TotalPoints int       `json:"totalPoints"`
}

// ScoreboardService ranks approved users by the points of the tasks they
// completed. Small, medium and large tasks are worth 1, 2 and 3 points.
type ScoreboardService interface {
	// Scores ranks users over tasks completed in [from, to). Zero bounds are open.
	Scores(ctx context.Context, from, to time.Time) ([]*Score, error)

	// ScoresForPeriod ranks users over the current week (from Monday),
	// month or year in the household time zone.
	ScoresForPeriod(ctx context.Context, period string) ([]*Score, error)
}

type scoreboardServiceImpl struct {
	tasks store.TaskStore
	users store.UserStore
	loc   *time.Location
	now   Clock
}

// NewScoreboardService creates a ScoreboardService. A nil loc means UTC and
// a nil clock means time.Now.
func NewScoreboardService(tasks store.TaskStore, users store.UserStore, loc *time.Location, clock Clock) ScoreboardService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &scoreboardServiceImpl{tasks: tasks, users: users, loc: loc, now: clock}
}

func (s *scoreboardServiceImpl) ScoresForPeriod(ctx context.Context, period string) ([]*Score, error) {
	from, err := PeriodStart(period, s.now().In(s.loc))
	if err != nil {
		return nil, err
	}
	return s.Scores(ctx, from, time.Time{})
}

// PeriodStart returns the first instant of the period containing now, in
// now's location. Weeks start on Monday.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	switch period {
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location()), nil
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, ErrInvalidPeriod
	}
}

func (s *scoreboardServiceImpl) Scores(ctx context.Context, from, to time.Time) ([]*Score, error) {
	users, err := s.users.ListApproved(ctx)
	if err != nil {
		return nil, NewServiceError("scoreboard", "scores", "failed to list users", err)
	}
	completed, err := s.tasks.ListCompleted(ctx, from, to)
	if err != nil {
		return nil, NewServiceError("scoreboard", "scores", "failed to list completed tasks", err)
	}

	byUser := make(map[uuid.UUID]*Score, len(users))
	scores := make([]*Score, 0, len(users))
	for _, u := range users {
		sc := &Score{ID: u.ID, Name: u.Name, ShortName: u.ShortName, Color: u.Color, Picture: u.Picture}
		byUser[u.ID] = sc
		scores = append(scores, sc)
	}
	for _, t := range completed {
		if t.AssignedToID == nil {
			continue
		}
		sc, ok := byUser[*t.AssignedToID]
		if !ok {
			continue
		}
		sc.TaskCount++
		sc.TotalPoints += t.Size.Points()
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalPoints != scores[j].TotalPoints {
			return scores[i].TotalPoints > scores[j].TotalPoints
		}
		return scores[i].Name < scores[j].Name
	})
	return scores, nil
}
