package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/advisordocs/reportgen/internal/config"
	"github.com/advisordocs/reportgen/internal/extract"
	"github.com/advisordocs/reportgen/internal/template"
	"github.com/advisordocs/reportgen/internal/transcribe"
)

// Orchestrator manages the report-generation pipeline.
type Orchestrator struct {
	jobs        *JobStore
	queue       chan *Job
	transcriber *transcribe.Client
	extractor   *extract.Extractor
	patcher     *template.Patcher
	log         *slog.Logger
	cfg         config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewOrchestrator creates the pipeline. The transcriber may be nil when no
// AssemblyAI key is configured; audio and video uploads are then rejected.
func NewOrchestrator(cfg config.Config, transcriber *transcribe.Client, extractor *extract.Extractor, patcher *template.Patcher, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:        NewJobStore(cfg.JobTTL),
		queue:       make(chan *Job, cfg.MaxQueueSize),
		transcriber: transcriber,
		extractor:   extractor,
		patcher:     patcher,
		log:         log,
		cfg:         cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.transcriber, o.extractor, o.patcher, o.cfg.TemplatePath, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submissions racing Stop either
// land on the queue before it closes or are rejected; the mutex orders them.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.Fail("queue", "service is shutting down")
		return fmt.Errorf("service is shutting down")
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue", "job queue is full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Transcribes reports whether audio and video uploads can be handled.
func (o *Orchestrator) Transcribes() bool {
	return o.transcriber != nil
}
