// Package worker runs background jobs, such as assignment e-mails and
// Telegram messages, on a fixed pool of goroutines fed by a bounded
// in-memory queue. Jobs are best effort: they are not persisted, and a
// failing job is logged and handed to the pool's error handler.
package worker
