package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a report-generation job.
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusTranscribing JobStatus = "transcribing"
	StatusExtracting   JobStatus = "extracting"
	StatusGenerating   JobStatus = "generating"
	StatusConverting   JobStatus = "converting"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// Artifacts holds the on-disk outputs produced so far for a job.
type Artifacts struct {
	TranscriptPath string `json:"transcript_path,omitempty"`
	JSONPath       string `json:"json_path,omitempty"`
	DocxPath       string `json:"docx_path,omitempty"`
	PDFPath        string `json:"pdf_path,omitempty"`
}

// Job tracks the state of a single transcript-to-report run.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	// InputPath is where the uploaded file was saved.
	InputPath string

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Error  string    `json:"error,omitempty"`

	// Unmatched lists placeholders left unfilled by template patching.
	Unmatched []string `json:"unmatched_placeholders,omitempty"`

	Artifacts Artifacts `json:"artifacts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with an error message.
func (j *Job) Fail(phase, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Phase = phase
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// SetArtifact records one produced output path.
func (j *Job) SetArtifact(set func(*Artifacts)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	set(&j.Artifacts)
	j.UpdatedAt = time.Now()
}

// SetUnmatched records unfilled placeholders.
func (j *Job) SetUnmatched(unmatched []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Unmatched = unmatched
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Error     string    `json:"error,omitempty"`
	Unmatched []string  `json:"unmatched_placeholders,omitempty"`
	Artifacts Artifacts `json:"artifacts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Status:    j.Status,
		Phase:     j.Phase,
		Error:     j.Error,
		Unmatched: append([]string(nil), j.Unmatched...),
		Artifacts: j.Artifacts,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// lastUpdated reads UpdatedAt under the job lock; workers write it
// concurrently with store cleanup.
func (j *Job) lastUpdated() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdated()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
