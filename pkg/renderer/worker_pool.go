package renderer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/imagebuf"
)

// RowTask represents a single image row to render
type RowTask struct {
	Row int
}

// RowResult contains the result from rendering a row
type RowResult struct {
	WorkerID int
	Row      int
	Duration time.Duration
	Error    error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows pulled from the shared task queue
type Worker struct {
	ID          int
	raytracer   *Raytracer
	image       *imagebuf.Image
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are buffered for every row of the image so submission never blocks.
func NewWorkerPool(rt *Raytracer, img *imagebuf.Image, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, img.Height()),
		resultQueue: make(chan RowResult, img.Height()),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   rt,
			image:       img,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop waits for queued tasks to drain and shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop. Rows are disjoint so writes to the shared image never overlap.
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Drain remaining tasks without rendering once cancelled
		if err := ctx.Err(); err != nil {
			w.resultQueue <- RowResult{WorkerID: w.ID, Row: task.Row, Error: err}
			continue
		}

		start := time.Now()
		random := rand.New(rand.NewSource(core.RowSeed(w.raytracer.config.Seed, task.Row)))
		w.raytracer.renderRow(task.Row, w.image, random)

		w.resultQueue <- RowResult{
			WorkerID: w.ID,
			Row:      task.Row,
			Duration: time.Since(start),
		}
	}
}
