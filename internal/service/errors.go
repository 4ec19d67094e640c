package service

import (
	"errors"
	"fmt"

	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/store"
)

// Sentinel errors returned by the services. Callers check them with
// errors.Is; the API layer maps each one to a status code and message.
var (
	// ErrTaskNotFound indicates that the task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrPeriodicTaskNotFound indicates that the periodic task does not exist.
	ErrPeriodicTaskNotFound = errors.New("periodic task not found")

	// ErrCategoryNotFound indicates that the category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAssignee is returned when a task is assigned to a user who
	// does not exist or has not been approved.
	ErrInvalidAssignee = errors.New("invalid assignee")

	// ErrInvalidCategory is returned when a referenced category does not exist.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrCategoryExists is returned when a category name is already taken.
	ErrCategoryExists = errors.New("a category with this name already exists")

	// ErrCategoryInUse is returned when deleting a category that still has
	// tasks or periodic tasks filed under it.
	ErrCategoryInUse = errors.New("category in use")

	// ErrInvalidPeriod is returned for an unknown scoreboard period.
	ErrInvalidPeriod = errors.New("invalid period")
)

// CategoryInUseError carries how many tasks block a category deletion.
type CategoryInUseError struct {
	Tasks int
}

func (e *CategoryInUseError) Error() string {
	if e.Tasks == 0 {
		return "Cannot delete category. It is used by periodic tasks."
	}
	return fmt.Sprintf("Cannot delete category. It has %d task(s) assigned to it.", e.Tasks)
}

// Is makes errors.Is(err, ErrCategoryInUse) match.
func (e *CategoryInUseError) Is(target error) bool {
	return target == ErrCategoryInUse
}

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	// Service is the service name, e.g. "task"
	Service string
	// Operation is the operation that failed, e.g. "update_task"
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// sentinels are returned as-is instead of being wrapped.
var sentinels = []error{
	ErrTaskNotFound,
	ErrPeriodicTaskNotFound,
	ErrCategoryNotFound,
	ErrUserNotFound,
	ErrInvalidAssignee,
	ErrInvalidCategory,
	ErrCategoryExists,
	ErrInvalidPeriod,
}

// storeSentinels translates store errors into service sentinels.
var storeSentinels = []struct {
	from error
	to   error
}{
	{store.ErrTaskNotFound, ErrTaskNotFound},
	{store.ErrPeriodicTaskNotFound, ErrPeriodicTaskNotFound},
	{store.ErrCategoryNotFound, ErrCategoryNotFound},
	{store.ErrUserNotFound, ErrUserNotFound},
	{store.ErrCategoryExists, ErrCategoryExists},
}

// NewServiceError wraps err for service/operation. Known sentinels, domain
// validation errors and CategoryInUseError are returned unwrapped so that
// callers can match them directly. A nil err yields nil.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s
		}
	}
	for _, m := range storeSentinels {
		if errors.Is(err, m.from) {
			return m.to
		}
	}

	var inUse *CategoryInUseError
	if errors.As(err, &inUse) {
		return inUse
	}
	if isDomainValidation(err) {
		return err
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

var domainValidationErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrEmptyTitle,
	domain.ErrInvalidSize,
	domain.ErrInvalidStatus,
	domain.ErrInvalidFrequency,
	domain.ErrInvalidDayOfWeek,
	domain.ErrInvalidMonthOfYear,
	domain.ErrInvalidActiveRange,
	domain.ErrEmptyCategory,
	domain.ErrEmptyName,
	domain.ErrEmptyEmoji,
}

func isDomainValidation(err error) bool {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
