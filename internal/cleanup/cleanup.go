// Package cleanup provides a background worker that purges expired
// sessions.
//
// Session records carry their own expiry and are rejected at resolve time
// regardless, so the worker only reclaims storage. Backends with native
// expiry report zero deletions and the sweep is a no-op.
package cleanup

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aloks98/gotodo/internal/store"
)

// Logger is the interface for logging sweep events.
type Logger interface {
	Printf(format string, v ...interface{})
}

// defaultLogger wraps the standard log package.
type defaultLogger struct{}

func (d *defaultLogger) Printf(format string, v ...interface{}) {
	log.Printf("[cleanup] "+format, v...)
}

// Config holds cleanup worker configuration.
type Config struct {
	// Sessions is the session store to sweep.
	Sessions store.SessionStore

	// Interval is how often to run the sweep.
	// Defaults to 1 hour.
	Interval time.Duration

	// Logger for sweep events.
	// Defaults to standard log package.
	Logger Logger
}

// Worker periodically deletes expired sessions.
type Worker struct {
	sessions store.SessionStore
	interval time.Duration
	logger   Logger
	done     chan struct{}
	wg       sync.WaitGroup

	mu              sync.RWMutex
	lastRun         time.Time
	sessionsDeleted int64
	errors          int64
}

// NewWorker creates a new cleanup worker.
func NewWorker(cfg *Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = &defaultLogger{}
	}
	return &Worker{
		sessions: cfg.Sessions,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup worker.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop gracefully stops the cleanup worker.
func (w *Worker) Stop() {
	close(w.done)
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()

	// Run immediately on start.
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep deletes expired sessions and records stats.
func (w *Worker) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := w.sessions.DeleteExpiredSessions(ctx)

	w.mu.Lock()
	w.lastRun = time.Now()
	if err != nil {
		w.errors++
	} else {
		w.sessionsDeleted += n
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Printf("session sweep failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Printf("removed %d expired sessions", n)
	}
}

// Stats is a snapshot of the worker's counters.
type Stats struct {
	LastRun         time.Time
	SessionsDeleted int64
	Errors          int64
}

// Stats returns a snapshot of the worker's counters.
func (w *Worker) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Stats{
		LastRun:         w.lastRun,
		SessionsDeleted: w.sessionsDeleted,
		Errors:          w.errors,
	}
}
