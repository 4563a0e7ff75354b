// Package monitor polls the operating system for foreground-program and
// idle-time signals and turns them into edge-triggered events.
package monitor

import (
	"sync"
	"time"

	"worktimer/internal/core/model"
)

// ForegroundProvider answers which application currently owns the
// foreground window.
type ForegroundProvider interface {
	ActiveProgram() (model.ActiveProgram, error)
}

// ForegroundConfig contains runtime options for the foreground monitor.
type ForegroundConfig struct {
	PollInterval time.Duration
}

type foregroundSample struct {
	program model.ActiveProgram
	err     error
}

// ForegroundMonitor samples the foreground application on a fixed cadence
// and invokes its callback once per distinct change. Failed samples are
// silent; the last known program is kept until a sample succeeds.
type ForegroundMonitor struct {
	mu       sync.Mutex
	provider ForegroundProvider
	options  ForegroundConfig
	onChange func(model.ActiveProgram)
	current  *model.ActiveProgram
	running  bool
	stopCh   chan struct{}
}

// NewForeground creates a foreground monitor. onChange is invoked from
// the monitor's goroutine, serialized, never after Stop returns.
func NewForeground(provider ForegroundProvider, options ForegroundConfig, onChange func(model.ActiveProgram)) *ForegroundMonitor {
	if options.PollInterval <= 0 {
		options.PollInterval = 500 * time.Millisecond
	}
	return &ForegroundMonitor{
		provider: provider,
		options:  options,
		onChange: onChange,
	}
}

// Start begins sampling.
func (watcher *ForegroundMonitor) Start() {
	watcher.mu.Lock()
	if watcher.running {
		watcher.mu.Unlock()
		return
	}
	watcher.running = true
	watcher.stopCh = make(chan struct{})
	stopCh := watcher.stopCh
	watcher.mu.Unlock()

	go watcher.run(stopCh)
}

// Stop halts sampling and clears the last known program. A query still in
// flight when Stop is called has its result dropped, not applied.
func (watcher *ForegroundMonitor) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	watcher.running = false
	watcher.current = nil
	close(watcher.stopCh)
}

// Current returns the last successfully observed program, or nil before
// the first sample.
func (watcher *ForegroundMonitor) Current() *model.ActiveProgram {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if watcher.current == nil {
		return nil
	}
	program := *watcher.current
	return &program
}

func (watcher *ForegroundMonitor) run(stopCh chan struct{}) {
	ticker := time.NewTicker(watcher.options.PollInterval)
	defer ticker.Stop()

	results := make(chan foregroundSample, 4)
	go watcher.query(results, stopCh)

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Queries run off the tick loop so a stalled OS call never
			// delays the next scheduled sample. Results are applied in
			// completion order.
			go watcher.query(results, stopCh)
		case sample := <-results:
			watcher.apply(sample)
		}
	}
}

func (watcher *ForegroundMonitor) query(results chan<- foregroundSample, stopCh chan struct{}) {
	program, err := watcher.provider.ActiveProgram()
	select {
	case results <- foregroundSample{program: program, err: err}:
	case <-stopCh:
	}
}

func (watcher *ForegroundMonitor) apply(sample foregroundSample) {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	if sample.err != nil || sample.program.Name == "" {
		return
	}
	if watcher.current != nil &&
		watcher.current.Name == sample.program.Name &&
		watcher.current.Title == sample.program.Title {
		return
	}

	program := sample.program
	watcher.current = &program
	if watcher.onChange != nil {
		// Held under the lock so Stop can guarantee no delivery after it
		// returns. The tracker never calls back into the monitor.
		watcher.onChange(program)
	}
}
