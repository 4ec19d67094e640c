package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyTitle is returned when a task or template has a blank title.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidSize is returned when a task size is not one of the known sizes.
	ErrInvalidSize = errors.New("invalid task size")

	// ErrInvalidStatus is returned when a task status is not one of the known statuses.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidFrequency is returned when a template frequency is not WEEKLY or MONTHLY.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidDayOfWeek is returned when a weekly template has no day or a day outside 0-6.
	ErrInvalidDayOfWeek = errors.New("valid day of week (0-6) is required for weekly tasks")

	// ErrInvalidMonthOfYear is returned when a monthly template has no month or a month outside 0-11.
	ErrInvalidMonthOfYear = errors.New("valid month (0-11) is required for monthly tasks")

	// ErrInvalidActiveRange is returned when a seasonal bound falls outside 0-11.
	ErrInvalidActiveRange = errors.New("active month range bounds must be between 0 and 11")

	// ErrEmptyCategory is returned when a template has no category.
	ErrEmptyCategory = errors.New("category is required")

	// ErrEmptyEmoji is returned when a category has no emoji.
	ErrEmptyEmoji = errors.New("emoji cannot be empty")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
