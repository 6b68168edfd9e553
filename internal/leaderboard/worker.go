package leaderboard

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileroll/internal/config"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	QueueSize int           // Pending tasks before Post drops
	Timeout   time.Duration // Deadline for each task
}

// DefaultWorkerConfig returns sensible defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		QueueSize: 64,
		Timeout:   5 * time.Second,
	}
}

// WorkerConfigFor derives a worker config from the leaderboard settings.
func WorkerConfigFor(cfg config.LeaderboardConfig) WorkerConfig {
	return WorkerConfig{
		QueueSize: cfg.QueueSize,
		Timeout:   cfg.Timeout(),
	}
}

// Worker runs persistence and leaderboard tasks one at a time on a single
// goroutine. Failures are logged and swallowed.
type Worker struct {
	config WorkerConfig
	logger *log.Logger

	msgChan chan Task
	done    chan struct{}
	wg      sync.WaitGroup

	// mu orders Post against Stop: no task is queued after the final drain.
	mu      sync.RWMutex
	stopped bool
}

// NewWorker creates a worker. Tasks posted before Start are queued.
func NewWorker(cfg WorkerConfig, logger *log.Logger) *Worker {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{
		config:  cfg,
		logger:  logger,
		msgChan: make(chan Task, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

// Start begins background processing.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.processMessages()
}

// Stop runs the tasks already queued, then shuts the worker down.
// Safe to call multiple times.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.done)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// Post queues fn without blocking. If the queue is full the task is dropped;
// the next save retries with fresher state.
func (w *Worker) Post(name string, fn func(ctx context.Context) error) {
	w.post(name, fn)
}

// post reports whether the task was queued.
func (w *Worker) post(name string, fn func(ctx context.Context) error) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.logger.Warn("background worker stopped, dropping task", "task", name)
		return false
	}

	select {
	case w.msgChan <- Task{Name: name, Run: fn}:
		return true
	default:
		w.logger.Warn("background queue full, dropping task", "task", name)
		return false
	}
}

func (w *Worker) processMessages() {
	defer w.wg.Done()
	for {
		select {
		case t := <-w.msgChan:
			w.run(t)
		case <-w.done:
			w.drain()
			return
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case t := <-w.msgChan:
			w.run(t)
		default:
			return
		}
	}
}

func (w *Worker) run(t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), w.config.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("background task panicked", "task", t.Name, "panic", r)
		}
	}()

	if err := t.Run(ctx); err != nil {
		w.logger.Warn("background task failed", "task", t.Name, "err", err)
		return
	}
	w.logger.Debug("background task done", "task", t.Name)
}
