package worker

import (
	"context"

	"github.com/google/uuid"
)

// Job is a unit of background work.
type Job interface {
	// ID returns the job's unique identifier.
	ID() uuid.UUID

	// Type returns the job type, used in logs.
	Type() string

	// Execute runs the job.
	Execute(ctx context.Context) error
}

// Enqueuer accepts jobs for asynchronous execution.
type Enqueuer interface {
	Enqueue(job Job) error
}

// FuncJob adapts a function to the Job interface.
type FuncJob struct {
	id      uuid.UUID
	jobType string
	fn      func(ctx context.Context) error
}

// NewFuncJob creates a job of type jobType running fn.
func NewFuncJob(jobType string, fn func(ctx context.Context) error) *FuncJob {
	return &FuncJob{id: uuid.New(), jobType: jobType, fn: fn}
}

func (j *FuncJob) ID() uuid.UUID                     { return j.id }
func (j *FuncJob) Type() string                      { return j.jobType }
func (j *FuncJob) Execute(ctx context.Context) error { return j.fn(ctx) }
