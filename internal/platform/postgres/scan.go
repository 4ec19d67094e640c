package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tareaspendientes/tareas-api/internal/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func uuidPtr(nu uuid.NullUUID) *uuid.UUID {
	if !nu.Valid {
		return nil
	}
	id := nu.UUID
	return &id
}

func intPtr(ni sql.NullInt32) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int32)
	return &i
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// nullableUser holds the columns of a LEFT JOINed users row.
type nullableUser struct {
	ID        uuid.NullUUID
	Name      sql.NullString
	ShortName sql.NullString
	Email     sql.NullString
	Picture   sql.NullString
	Color     sql.NullString
}

func (u *nullableUser) dest() []any {
	return []any{&u.ID, &u.Name, &u.ShortName, &u.Email, &u.Picture, &u.Color}
}

func (u *nullableUser) summary() *domain.UserSummary {
	if !u.ID.Valid {
		return nil
	}
	return &domain.UserSummary{
		ID:        u.ID.UUID,
		Name:      u.Name.String,
		ShortName: stringPtr(u.ShortName),
		Email:     stringPtr(u.Email),
		Picture:   stringPtr(u.Picture),
		Color:     stringPtr(u.Color),
	}
}

// userSummaryColumns lists the columns scanned by nullableUser for alias a.
func userSummaryColumns(a string) string {
	return a + ".id, " + a + ".name, " + a + ".short_name, " + a + ".email, " + a + ".picture, " + a + ".color"
}

// nullableCategory holds the columns of a LEFT JOINed categories row.
type nullableCategory struct {
	ID        uuid.NullUUID
	Name      sql.NullString
	Emoji     sql.NullString
	CreatedAt sql.NullTime
}

func (c *nullableCategory) dest() []any {
	return []any{&c.ID, &c.Name, &c.Emoji, &c.CreatedAt}
}

func (c *nullableCategory) category() *domain.Category {
	if !c.ID.Valid {
		return nil
	}
	return &domain.Category{
		ID:        c.ID.UUID,
		Name:      c.Name.String,
		Emoji:     c.Emoji.String,
		CreatedAt: c.CreatedAt.Time.UTC(),
	}
}

const categoryJoinColumns = "c.id, c.name, c.emoji, c.created_at"
