package indexing

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is a point-in-time view of a running build.
type Progress struct {
	Index     string
	Processed int
	Total     int
	Elapsed   time.Duration
	Done      bool
}

// Percent returns completion in the range 0..100.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total) * 100.0
}

// Tracker tracks and reports progress of an index build.
// The current value can be polled with Snapshot while the build runs.
type Tracker struct {
	index          string
	writer         io.Writer
	ch             chan<- Progress
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	done           bool
	mu             sync.Mutex
}

// NewTracker creates a tracker that reports every reportInterval items to the
// writer and channel configured in opts.
func NewTracker(index string, total, reportInterval int, opts BuildOptions) *Tracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &Tracker{
		index:          index,
		writer:         opts.Writer,
		ch:             opts.Progress,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *Tracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done = false
	p.current = 0
	p.lastReported = 0
}

// Increment increases the current progress by delta.
func (p *Tracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current += delta
	if p.current > p.total {
		p.current = p.total
	}

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish marks the build as complete and reports final progress.
// A cancelled build keeps its partial count.
func (p *Tracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.done = true
	p.report()
	if p.writer != nil {
		fmt.Fprintln(p.writer)
	}
}

// Snapshot returns the current progress.
func (p *Tracker) Snapshot() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Elapsed returns the time since Start was called.
func (p *Tracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

func (p *Tracker) snapshot() Progress {
	var elapsed time.Duration
	if p.started {
		elapsed = time.Since(p.startTime)
	}
	return Progress{
		Index:     p.index,
		Processed: p.current,
		Total:     p.total,
		Elapsed:   elapsed,
		Done:      p.done,
	}
}

// report publishes the current progress. Must be called with lock held.
func (p *Tracker) report() {
	snap := p.snapshot()

	if p.ch != nil {
		select {
		case p.ch <- snap:
		default:
		}
	}

	if p.writer != nil {
		rate := 0.0
		if snap.Elapsed > 0 {
			rate = float64(snap.Processed) / snap.Elapsed.Seconds()
		}
		fmt.Fprintf(p.writer, "\r%s: %s/%s (%.1f%%) - %.1f assets/s",
			p.index, humanize.Comma(int64(snap.Processed)), humanize.Comma(int64(snap.Total)), snap.Percent(), rate)
	}
}
