package generation

import "errors"

var (
	// ErrAlreadyGenerated is reported for a template that another sweep
	// generated for the current period first. It is a skip, not a failure.
	ErrAlreadyGenerated = errors.New("template already generated for this period")

	// ErrTemplateGone is reported when a due template was deleted before its
	// transaction could lock it.
	ErrTemplateGone = errors.New("template no longer exists")

	// ErrNoLongerDue is reported when a template was edited between the due
	// check and its transaction so that it is no longer due.
	ErrNoLongerDue = errors.New("template no longer due")

	// ErrListTemplates is returned by Run when the template listing fails.
	ErrListTemplates = errors.New("failed to list periodic tasks")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// IsSkip reports whether err marks a template that was legitimately not
// generated, as opposed to a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ErrAlreadyGenerated) ||
		errors.Is(err, ErrTemplateGone) ||
		errors.Is(err, ErrNoLongerDue)
}
