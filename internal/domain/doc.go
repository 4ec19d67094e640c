// Package domain contains the core business entities of the chore board: users,
// categories, tasks, recurring task templates and the audit history, together with
// their validation rules and the calendar helpers used to decide when a template
// is in season. It is independent of any storage or delivery mechanism.
package domain
