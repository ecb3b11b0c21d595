package session

import (
	"sync"
	"time"
)

// Op names a highlight operation for diagnostics purposes.
type Op string

// The operations tracked by Diagnostics.
const (
	OpCreate Op = "create"
	OpAdjust Op = "adjust"
	OpRemove Op = "remove"
)

// Diagnostics counts highlight operations and their failures. Failures are
// deliberately silent at the UI boundary; this recorder is the only place
// they are visible.
type Diagnostics struct {
	mu    sync.Mutex
	stats map[Op]*OpStats
}

// OpStats holds the counters for one operation.
type OpStats struct {
	Attempts    uint64
	Failures    uint64
	LastError   error
	LastAttempt time.Time
}

// NewDiagnostics creates an empty recorder.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		stats: make(map[Op]*OpStats),
	}
}

// RecordSuccess counts a completed operation.
func (d *Diagnostics) RecordSuccess(op Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.get(op)
	s.Attempts++
	s.LastAttempt = time.Now()
}

// RecordFailure counts a failed operation and keeps its error.
func (d *Diagnostics) RecordFailure(op Op, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.get(op)
	s.Attempts++
	s.Failures++
	s.LastError = err
	s.LastAttempt = time.Now()
}

// Stats returns a copy of the counters for op.
func (d *Diagnostics) Stats(op Op) OpStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.stats[op]; ok {
		return *s
	}
	return OpStats{}
}

func (d *Diagnostics) get(op Op) *OpStats {
	s, ok := d.stats[op]
	if !ok {
		s = &OpStats{}
		d.stats[op] = s
	}
	return s
}
