package crawl

import (
	"context"
	"sync"

	"github.com/mkowalski/docbase"
)

// Jobs is a single-slot crawl job manager. At most one crawl is active per
// process; starting a second one fails fast with ECONFLICT. Status-polling
// callers read immutable snapshots through State.
type Jobs struct {
	mu     sync.Mutex
	state  docbase.CrawlState
	cancel context.CancelFunc
}

// NewJobs creates an idle job manager.
func NewJobs() *Jobs {
	return &Jobs{state: docbase.CrawlState{Status: "Idle"}}
}

// Begin claims the job slot and resets progress state for a new job.
// The returned context is canceled by Cancel. Returns ECONFLICT if a job is
// already active.
func (j *Jobs) Begin(ctx context.Context, category string) (context.Context, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state.InProgress {
		return nil, docbase.Errorf(docbase.ECONFLICT, "a crawl is already in progress for %q", j.state.Category)
	}

	jctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.state = docbase.CrawlState{
		InProgress: true,
		Status:     "Starting...",
		Category:   category,
	}
	return jctx, nil
}

// Finish releases the job slot and records the final status line.
func (j *Jobs) Finish(status string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.state.InProgress = false
	j.state.Progress = 100
	j.state.CurrentURL = ""
	j.state.Status = status
}

// Cancel flips the cancellation flag of the active job, if any. The job
// terminates cleanly at its next check between page fetches.
func (j *Jobs) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		j.cancel()
	}
}

// State returns a snapshot of the current job's progress.
func (j *Jobs) State() docbase.CrawlState {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := j.state
	snap.Errors = append([]string(nil), j.state.Errors...)
	return snap
}

// SetEstimate records the expected total page count for progress reporting.
func (j *Jobs) SetEstimate(total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.TotalPagesEstimate = total
}

// SetCurrent records the URL being processed.
func (j *Jobs) SetCurrent(url, status string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.CurrentURL = url
	j.state.Status = status
}

// PageScraped increments the scraped counter and advances progress.
// Progress is capped below 100 until Finish is called.
func (j *Jobs) PageScraped() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.state.PagesScraped++
	if j.state.TotalPagesEstimate > 0 {
		p := float64(j.state.PagesScraped) / float64(j.state.TotalPagesEstimate) * 100
		if p > 99 {
			p = 99
		}
		j.state.Progress = p
	}
}

// AddError appends a page-level error message to the state snapshot.
func (j *Jobs) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state.Errors = append(j.state.Errors, msg)
}
