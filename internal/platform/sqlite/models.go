package sqlite

import (
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
)

type userModel struct {
	ID         uuid.UUID `gorm:"type:text;primaryKey"`
	Name       string    `gorm:"not null"`
	ShortName  *string
	Email      *string `gorm:"uniqueIndex"`
	Picture    *string
	Color      *string
	IsApproved bool      `gorm:"not null;default:false"`
	IsAdmin    bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:         m.ID,
		Name:       m.Name,
		ShortName:  m.ShortName,
		Email:      m.Email,
		Picture:    m.Picture,
		Color:      m.Color,
		IsApproved: m.IsApproved,
		IsAdmin:    m.IsAdmin,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func (m *userModel) summary() *domain.UserSummary {
	if m == nil {
		return nil
	}
	return m.toDomain().Summary()
}

type categoryModel struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	Name      string    `gorm:"not null;uniqueIndex"`
	Emoji     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (categoryModel) TableName() string { return "categories" }

func (m *categoryModel) toDomain() *domain.Category {
	if m == nil {
		return nil
	}
	return &domain.Category{ID: m.ID, Name: m.Name, Emoji: m.Emoji, CreatedAt: m.CreatedAt.UTC()}
}

func newCategoryModel(c *domain.Category) *categoryModel {
	return &categoryModel{ID: c.ID, Name: c.Name, Emoji: c.Emoji, CreatedAt: c.CreatedAt.UTC()}
}

type periodicTaskModel struct {
	ID              uuid.UUID `gorm:"type:text;primaryKey"`
	Title           string    `gorm:"not null"`
	Description     *string
	Size            string `gorm:"not null;default:Pequena"`
	Frequency       string `gorm:"not null"`
	DayOfWeek       *int
	MonthOfYear     *int
	ActiveFromMonth *int
	ActiveToMonth   *int
	CategoryID      uuid.UUID      `gorm:"type:text;not null;index"`
	Category        *categoryModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	AssignedToID    *uuid.UUID     `gorm:"type:text;index"`
	AssignedTo      *userModel     `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	LastGeneratedAt *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (periodicTaskModel) TableName() string { return "periodic_tasks" }

func newPeriodicTaskModel(pt *domain.PeriodicTask) *periodicTaskModel {
	return &periodicTaskModel{
		ID:              pt.ID,
		Title:           pt.Title,
		Description:     pt.Description,
		Size:            string(pt.Size),
		Frequency:       string(pt.Frequency),
		DayOfWeek:       pt.DayOfWeek,
		MonthOfYear:     pt.MonthOfYear,
		ActiveFromMonth: pt.ActiveFromMonth,
		ActiveToMonth:   pt.ActiveToMonth,
		CategoryID:      pt.CategoryID,
		AssignedToID:    pt.AssignedToID,
		LastGeneratedAt: utcPtr(pt.LastGeneratedAt),
		CreatedAt:       pt.CreatedAt.UTC(),
		UpdatedAt:       pt.UpdatedAt.UTC(),
	}
}

func (m *periodicTaskModel) toDomain() *domain.PeriodicTask {
	return &domain.PeriodicTask{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Size:            domain.TaskSize(m.Size),
		Frequency:       domain.Frequency(m.Frequency),
		DayOfWeek:       m.DayOfWeek,
		MonthOfYear:     m.MonthOfYear,
		ActiveFromMonth: m.ActiveFromMonth,
		ActiveToMonth:   m.ActiveToMonth,
		CategoryID:      m.CategoryID,
		AssignedToID:    m.AssignedToID,
		LastGeneratedAt: utcPtr(m.LastGeneratedAt),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func (m *periodicTaskModel) toView() *domain.PeriodicTaskView {
	return &domain.PeriodicTaskView{
		PeriodicTask: *m.toDomain(),
		Category:     m.Category.toDomain(),
		AssignedTo:   m.AssignedTo.summary(),
	}
}

type taskModel struct {
	ID             uuid.UUID `gorm:"type:text;primaryKey"`
	Title          string    `gorm:"not null"`
	Description    *string
	Size           string             `gorm:"not null;default:Pequena"`
	Status         string             `gorm:"not null;default:Nueva;index"`
	CategoryID     *uuid.UUID         `gorm:"type:text;index"`
	Category       *categoryModel     `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	AssignedToID   *uuid.UUID         `gorm:"type:text;index"`
	AssignedTo     *userModel         `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	PeriodicTaskID *uuid.UUID         `gorm:"type:text;index"`
	PeriodicTask   *periodicTaskModel `gorm:"foreignKey:PeriodicTaskID;constraint:OnDelete:SET NULL"`
	CreatedByID    uuid.UUID          `gorm:"type:text;not null"`
	CreatedBy      *userModel         `gorm:"foreignKey:CreatedByID"`
	CompletedAt    *time.Time         `gorm:"index"`
	CreatedAt      time.Time          `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time          `gorm:"autoUpdateTime:false"`
}

func (taskModel) TableName() string { return "tasks" }

func newTaskModel(t *domain.Task) *taskModel {
	return &taskModel{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Size:           string(t.Size),
		Status:         string(t.Status),
		CategoryID:     t.CategoryID,
		AssignedToID:   t.AssignedToID,
		PeriodicTaskID: t.PeriodicTaskID,
		CreatedByID:    t.CreatedByID,
		CompletedAt:    utcPtr(t.CompletedAt),
		CreatedAt:      t.CreatedAt.UTC(),
		UpdatedAt:      t.UpdatedAt.UTC(),
	}
}

func (m *taskModel) toDomain() *domain.Task {
	return &domain.Task{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		Size:           domain.TaskSize(m.Size),
		Status:         domain.TaskStatus(m.Status),
		CategoryID:     m.CategoryID,
		AssignedToID:   m.AssignedToID,
		PeriodicTaskID: m.PeriodicTaskID,
		CreatedByID:    m.CreatedByID,
		CompletedAt:    utcPtr(m.CompletedAt),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func (m *taskModel) toView() *domain.TaskView {
	return &domain.TaskView{
		Task:       *m.toDomain(),
		Category:   m.Category.toDomain(),
		AssignedTo: m.AssignedTo.summary(),
		CreatedBy:  m.CreatedBy.summary(),
	}
}

// historyModel has no association to tasks: entries outlive deleted tasks.
type historyModel struct {
	ID            uuid.UUID  `gorm:"type:text;primaryKey"`
	TaskID        uuid.UUID  `gorm:"type:text;not null;index"`
	UserID        uuid.UUID  `gorm:"type:text;not null"`
	User          *userModel `gorm:"foreignKey:UserID"`
	Action        string     `gorm:"not null"`
	PreviousValue *string
	NewValue      *string
	ChangedAt     time.Time `gorm:"not null;index"`
}

func (historyModel) TableName() string { return "task_history" }

func (m *historyModel) toView(title *string) *domain.HistoryView {
	return &domain.HistoryView{
		HistoryEntry: domain.HistoryEntry{
			ID:            m.ID,
			TaskID:        m.TaskID,
			UserID:        m.UserID,
			Action:        domain.HistoryAction(m.Action),
			PreviousValue: m.PreviousValue,
			NewValue:      m.NewValue,
			Timestamp:     m.ChangedAt.UTC(),
		},
		User:      m.User.summary(),
		TaskTitle: title,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// models lists every table in creation order.
func models() []any {
	return []any{
		&userModel{},
		&categoryModel{},
		&periodicTaskModel{},
		&taskModel{},
		&historyModel{},
	}
}
