package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups tasks on the board (e.g. Cocina, Jardín).
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCategory creates a validated category.
func NewCategory(name, emoji string) (*Category, error) {
	c := &Category{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Emoji:     strings.TrimSpace(emoji),
		CreatedAt: time.Now().UTC(),
	}
	if c.Name == "" {
		return nil, ErrEmptyName
	}
	if c.Emoji == "" {
		return nil, ErrEmptyEmoji
	}
	return c, nil
}

// CategoryView is a category with the number of tasks filed under it.
type CategoryView struct {
	Category
	TaskCount int `json:"taskCount"`
}

// Rename updates the non-empty fields of the category.
func (c *Category) Rename(name, emoji *string) error {
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return ErrEmptyName
		}
		c.Name = n
	}
	if emoji != nil {
		e := strings.TrimSpace(*emoji)
		if e == "" {
			return ErrEmptyEmoji
		}
		c.Emoji = e
	}
	return nil
}
