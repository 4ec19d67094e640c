package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID = errors.New("user ID cannot be empty")
	ErrEmptyName   = errors.New("name cannot be empty")
)

// User is a household member. Accounts are created by the OAuth login flow and
// must be approved before they can be assigned tasks.
type User struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ShortName  *string   `json:"shortName"`
	Email      *string   `json:"email"`
	Picture    *string   `json:"picture"`
	Color      *string   `json:"color"`
	IsApproved bool      `json:"isApproved"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserSummary is the subset of user data embedded in tasks and history entries.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName *string   `json:"shortName,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Picture   *string   `json:"picture"`
	Color     *string   `json:"color,omitempty"`
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Summary returns the embeddable view of the user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		ShortName: u.ShortName,
		Email:     u.Email,
		Picture:   u.Picture,
		Color:     u.Color,
	}
}

// FirstName returns the first word of the user's display name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}
