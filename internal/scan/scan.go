// Package scan implements progress tracking for a two-phase scan: the
// traversal first establishes the total amount of files, after which each
// resolved and reported file advances the processed count. The tracked state
// feeds the user interface.
package scan

import (
	"sync"
	"time"
)

// Progress holds a point-in-time snapshot of scan progress information. It is
// meant to be passed by value.
type Progress struct {
	HasStarted     bool
	HasFinished    bool
	StartTime      time.Time
	FinishTime     time.Time
	ProgressPct    float64
	TotalItems     int
	ProcessedItems int
	StaleItems     int
	TotalBytes     uint64
	ETA            time.Time
	TimeLeft       time.Duration
}

// Tracker records scan progress in a thread-safe manner.
type Tracker struct {
	sync.RWMutex

	hasStarted  bool
	hasFinished bool
	startTime   time.Time
	finishTime  time.Time

	totalItems     int
	processedItems int
	staleItems     int
	totalBytes     uint64
}

// NewTracker returns a pointer to a new [Tracker].
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin marks the start of the reporting phase with a known total of files.
func (t *Tracker) Begin(totalItems int) {
	t.Lock()
	defer t.Unlock()

	t.hasStarted = true
	t.startTime = time.Now()
	t.totalItems = totalItems
}

// MarkProcessed records one reported file, whether it counted as stale and
// how many bytes it held.
func (t *Tracker) MarkProcessed(stale bool, bytes int64) {
	t.Lock()
	defer t.Unlock()

	t.processedItems++
	if stale {
		t.staleItems++
	}
	if bytes > 0 {
		t.totalBytes += uint64(bytes)
	}
}

// Finish marks the end of the reporting phase.
func (t *Tracker) Finish() {
	t.Lock()
	defer t.Unlock()

	t.hasFinished = true
	t.finishTime = time.Now()
}

// Progress returns the [Progress] for the [Tracker].
func (t *Tracker) Progress() Progress {
	t.RLock()
	defer t.RUnlock()

	totalItems := t.totalItems
	processedItems := min(t.processedItems, totalItems)

	var progressPct float64
	if totalItems > 0 {
		progressPct = float64(processedItems) / float64(totalItems) * 100 //nolint:mnd
		progressPct = max(float64(0), min(progressPct, float64(100)))     //nolint:mnd
	}

	var eta time.Time
	var timeLeft time.Duration

	if t.hasStarted && processedItems > 0 && processedItems < totalItems {
		elapsed := time.Since(t.startTime)
		itemsPerSec := float64(processedItems) / max(elapsed.Seconds(), 1)

		if itemsPerSec > 0 {
			remainingItems := totalItems - processedItems
			remainingSeconds := float64(remainingItems) / itemsPerSec
			timeLeft = time.Duration(remainingSeconds * float64(time.Second))
			eta = time.Now().Add(timeLeft)
		}
	}

	return Progress{
		HasStarted:     t.hasStarted,
		HasFinished:    t.hasFinished,
		StartTime:      t.startTime,
		FinishTime:     t.finishTime,
		ProgressPct:    progressPct,
		TotalItems:     totalItems,
		ProcessedItems: processedItems,
		StaleItems:     t.staleItems,
		TotalBytes:     t.totalBytes,
		ETA:            eta,
		TimeLeft:       timeLeft,
	}
}
