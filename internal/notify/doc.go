// Package notify delivers board changes to people: a websocket hub that
// broadcasts task events to open boards, assignment e-mails sent over SMTP,
// and an optional Telegram announcement of generated chores. E-mail and
// Telegram deliveries run on the worker pool and never fail the request
// that triggered them.
package notify
