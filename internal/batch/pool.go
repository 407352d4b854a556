// Package batch runs many independent constraint-propagation sessions
// concurrently. The propagation core itself stays single-threaded and
// cooperative, with no parallelism within a single puzzle's propagation,
// but an external caller may parallelize across puzzles as long as each
// worker owns its own grid state, handler set instances, and scratch
// buffers. This package is that external caller: a fixed-size worker
// pool dedicated to running one gridsolver.Grid/HandlerSet pair per
// task, never sharing mutable state across goroutines.
package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// WorkerPool runs propagation tasks on a bounded, fixed-size set of
// goroutines with backpressure: Submit blocks once the queue is full
// rather than spawning unbounded goroutines. A batch of independent
// puzzle propagations has no notion of "load" that would justify
// scaling the worker count at runtime, so the pool size is fixed for
// its whole lifetime.
type WorkerPool struct {
	numWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once

	stats *ExecutionStats
}

// NewWorkerPool creates a pool with numWorkers goroutines draining a
// bounded task queue. numWorkers below 1 is treated as 1.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	pool := &WorkerPool{
		numWorkers:   numWorkers,
		taskChan:     make(chan func(), numWorkers*4),
		shutdownChan: make(chan struct{}),
		stats:        NewExecutionStats(),
	}

	for i := 0; i < numWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		if task == nil {
			continue
		}
		start := time.Now()
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.stats.RecordTaskFailed(fmt.Errorf("propagation task panicked: %v", r))
				}
			}()
			task()
			wp.stats.RecordTaskCompleted(time.Since(start))
		}()
	}
}

// Submit queues a propagation task. It blocks until the task is
// accepted, ctx is cancelled, or the pool is shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.stats.RecordTaskSubmitted()
	select {
	case <-wp.shutdownChan:
		wp.stats.RecordTaskCancelled()
		return ErrPoolShutdown
	default:
	}
	select {
	case wp.taskChan <- task:
		wp.stats.RecordQueueDepth(len(wp.taskChan))
		return nil
	case <-ctx.Done():
		wp.stats.RecordTaskCancelled()
		return ctx.Err()
	case <-wp.shutdownChan:
		wp.stats.RecordTaskCancelled()
		return ErrPoolShutdown
	}
}

// Shutdown waits for queued and in-flight tasks to finish, then stops
// every worker goroutine. Safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)
		close(wp.taskChan)
		wp.workerWg.Wait()
		wp.stats.Finalize()
	})
}

// NumWorkers reports the pool's fixed worker-goroutine count.
func (wp *WorkerPool) NumWorkers() int { return wp.numWorkers }

// GetQueueDepth reports how many tasks are waiting.
func (wp *WorkerPool) GetQueueDepth() int { return len(wp.taskChan) }

// GetStats returns the pool's execution statistics collector.
func (wp *WorkerPool) GetStats() *ExecutionStats { return wp.stats }

// ErrPoolShutdown is returned by Submit once the pool has been shut down.
var ErrPoolShutdown = fmt.Errorf("batch: worker pool has been shut down")

// ExecutionStats accumulates task counts and timings across a pool's
// lifetime; every public field is read through GetStats, which takes a
// consistent snapshot.
type ExecutionStats struct {
	mu sync.RWMutex

	StartTime          time.Time
	EndTime            time.Time
	TotalExecutionTime time.Duration

	TasksSubmitted int64
	TasksCompleted int64
	TasksFailed    int64
	TasksCancelled int64
	ErrorCount     int64
	LastError      error

	PeakQueueDepth    int
	AverageQueueDepth float64

	TasksPerSecond      float64
	AverageTaskDuration time.Duration

	queueDepthHistory   []queueDepthSample
	taskDurationHistory []time.Duration
}

type queueDepthSample struct {
	timestamp time.Time
	depth     int
}

// NewExecutionStats creates an empty, ready-to-use stats collector.
func NewExecutionStats() *ExecutionStats {
	return &ExecutionStats{
		StartTime:           time.Now(),
		queueDepthHistory:   make([]queueDepthSample, 0, 256),
		taskDurationHistory: make([]time.Duration, 0, 1024),
	}
}

func (es *ExecutionStats) RecordTaskSubmitted() { atomic.AddInt64(&es.TasksSubmitted, 1) }

func (es *ExecutionStats) RecordTaskCompleted(d time.Duration) {
	atomic.AddInt64(&es.TasksCompleted, 1)
	es.mu.Lock()
	es.taskDurationHistory = append(es.taskDurationHistory, d)
	es.mu.Unlock()
}

func (es *ExecutionStats) RecordTaskFailed(err error) {
	atomic.AddInt64(&es.TasksFailed, 1)
	atomic.AddInt64(&es.ErrorCount, 1)
	es.mu.Lock()
	es.LastError = err
	es.mu.Unlock()
}

func (es *ExecutionStats) RecordTaskCancelled() { atomic.AddInt64(&es.TasksCancelled, 1) }

func (es *ExecutionStats) RecordQueueDepth(depth int) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if depth > es.PeakQueueDepth {
		es.PeakQueueDepth = depth
	}
	es.queueDepthHistory = append(es.queueDepthHistory, queueDepthSample{time.Now(), depth})
	if len(es.queueDepthHistory) > 1000 {
		es.queueDepthHistory = es.queueDepthHistory[1:]
	}
}

// Finalize computes derived averages/throughput once a pool has shut
// down. Calling it more than once is safe but recomputes from history.
func (es *ExecutionStats) Finalize() {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.EndTime = time.Now()
	es.TotalExecutionTime = es.EndTime.Sub(es.StartTime)

	if len(es.queueDepthHistory) > 0 {
		total := 0
		for _, s := range es.queueDepthHistory {
			total += s.depth
		}
		es.AverageQueueDepth = float64(total) / float64(len(es.queueDepthHistory))
	}
	if len(es.taskDurationHistory) > 0 {
		var total time.Duration
		for _, d := range es.taskDurationHistory {
			total += d
		}
		es.AverageTaskDuration = total / time.Duration(len(es.taskDurationHistory))
	}
	if es.TotalExecutionTime > 0 {
		es.TasksPerSecond = float64(atomic.LoadInt64(&es.TasksCompleted)) / es.TotalExecutionTime.Seconds()
	}
}

// GetStats returns a point-in-time copy safe to read without a lock.
func (es *ExecutionStats) GetStats() ExecutionStats {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return ExecutionStats{
		StartTime:           es.StartTime,
		EndTime:             es.EndTime,
		TotalExecutionTime:  es.TotalExecutionTime,
		TasksSubmitted:      atomic.LoadInt64(&es.TasksSubmitted),
		TasksCompleted:      atomic.LoadInt64(&es.TasksCompleted),
		TasksFailed:         atomic.LoadInt64(&es.TasksFailed),
		TasksCancelled:      atomic.LoadInt64(&es.TasksCancelled),
		ErrorCount:          atomic.LoadInt64(&es.ErrorCount),
		LastError:           es.LastError,
		PeakQueueDepth:      es.PeakQueueDepth,
		AverageQueueDepth:   es.AverageQueueDepth,
		TasksPerSecond:      es.TasksPerSecond,
		AverageTaskDuration: es.AverageTaskDuration,
	}
}

// String renders a human-readable timing/result summary.
func (es *ExecutionStats) String() string {
	s := es.GetStats()
	var lastErr string
	if s.LastError != nil {
		lastErr = s.LastError.Error()
	} else {
		lastErr = "none"
	}
	return fmt.Sprintf("ExecutionStats{tasks: %d submitted, %d completed, %d failed, %d cancelled; "+
		"queue: peak=%d avg=%.1f; %.1f tasks/sec; avg_duration=%v; last_error=%s}",
		s.TasksSubmitted, s.TasksCompleted, s.TasksFailed, s.TasksCancelled,
		s.PeakQueueDepth, s.AverageQueueDepth,
		s.TasksPerSecond, s.AverageTaskDuration, lastErr)
}
