// Package service implements the board's use cases on top of the stores:
// task CRUD with its audit trail, periodic task templates, categories, the
// approved-user list and the scoreboard.
//
// Services return the sentinel errors declared in errors.go for expected
// conditions and domain validation errors unchanged; anything else is
// wrapped in a ServiceError. Writes that touch more than one table run
// inside store.Transactor.WithinTx, and change events are emitted only
// after the transaction commits.
package service
