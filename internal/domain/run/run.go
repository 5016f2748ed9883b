// Package run tracks one engine invocation for lifecycle tracing.
package run

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// seqCounter numbers runs within the process
var seqCounter uint64

// Operation names the engine call a run belongs to
type Operation string

const (
	OperationSort   Operation = "sort"
	OperationFilter Operation = "filter"
	OperationDerive Operation = "derive"
	OperationMask   Operation = "mask"
)

// Run is the context of a single engine call
type Run struct {
	ID        string // UUID, attached to every lifecycle event
	Seq       uint64 // process-local sequence number
	Operation Operation
	Active    bool
	StartTime time.Time
}

// New starts a run with a unique ID
func New(op Operation) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Seq:       atomic.AddUint64(&seqCounter, 1),
		Operation: op,
		Active:    true,
		StartTime: time.Now(),
	}
}

// Close marks the run as finished and returns its duration
func (r *Run) Close() time.Duration {
	r.Active = false
	return time.Since(r.StartTime)
}
