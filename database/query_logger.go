package database

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm/logger"
)

// QueryTrace is a single executed SQL statement kept for debugging.
type QueryTrace struct {
	ID        int           `json:"id"`
	SQL       string        `json:"sql"`
	Duration  time.Duration `json:"duration"`
	Rows      int64         `json:"rows"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// QueryTracer keeps a bounded in-memory ring of recent SQL statements,
// newest first.
type QueryTracer struct {
	mu      sync.RWMutex
	traces  []QueryTrace
	maxSize int
	counter int
}

// SQLTracer is the shared tracer wired into GORM and the debug endpoint.
var SQLTracer = NewQueryTracer(100)

// NewQueryTracer creates a tracer keeping at most maxSize entries.
func NewQueryTracer(maxSize int) *QueryTracer {
	return &QueryTracer{
		traces:  make([]QueryTrace, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record stores one executed statement.
func (qt *QueryTracer) Record(sql string, duration time.Duration, rows int64, err error) {
	qt.mu.Lock()
	defer qt.mu.Unlock()

	qt.counter++
	trace := QueryTrace{
		ID:        qt.counter,
		SQL:       sql,
		Duration:  duration,
		Rows:      rows,
		Timestamp: time.Now(),
	}
	if err != nil {
		trace.Error = err.Error()
	}

	qt.traces = append([]QueryTrace{trace}, qt.traces...)
	if len(qt.traces) > qt.maxSize {
		qt.traces = qt.traces[:qt.maxSize]
	}
}

// Recent returns a copy of the stored traces, newest first.
func (qt *QueryTracer) Recent() []QueryTrace {
	qt.mu.RLock()
	defer qt.mu.RUnlock()

	out := make([]QueryTrace, len(qt.traces))
	copy(out, qt.traces)
	return out
}

// Count returns how many statements have been recorded since startup.
func (qt *QueryTracer) Count() int {
	qt.mu.RLock()
	defer qt.mu.RUnlock()
	return qt.counter
}

// Clear drops all stored traces.
func (qt *QueryTracer) Clear() {
	qt.mu.Lock()
	defer qt.mu.Unlock()
	qt.traces = qt.traces[:0]
}

// tracingGormLogger forwards to the default GORM logger and records every
// statement into SQLTracer.
type tracingGormLogger struct {
	logger.Interface
}

func (l *tracingGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.Interface != nil {
		l.Interface.Trace(ctx, begin, fc, err)
	}

	sql, rows := fc()
	SQLTracer.Record(sql, time.Since(begin), rows, err)
}
