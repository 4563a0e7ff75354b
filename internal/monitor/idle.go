package monitor

import (
	"errors"
	"log"
	"sync"
	"time"

	"worktimer/internal/core/tracker"
)

// ErrIdleUnsupported indicates idle detection is not available on this
// system. Providers return it to stop the monitor from retrying.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider reports the duration of user inactivity.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// IdleConfig holds the thresholds and cadence of the idle monitor.
type IdleConfig struct {
	RestingThreshold  time.Duration
	SleepingThreshold time.Duration
	PollInterval      time.Duration
}

type idlePhase int

const (
	phaseActive idlePhase = iota
	phaseResting
	phaseSleeping
)

// IdleMonitor polls system idle time and emits edge-triggered transitions:
// idle-resting and idle-sleeping when the idle duration crosses the
// configured thresholds, idle-resume when activity returns. Suspend and
// resume signals from the platform force transitions immediately.
type IdleMonitor struct {
	mu       sync.Mutex
	provider IdleProvider
	config   IdleConfig
	onEvent  func(tracker.IdleKind)
	phase       idlePhase
	running     bool
	unsupported bool
	stopCh      chan struct{}
}

// NewIdle creates an idle monitor. onEvent is invoked serialized and
// never after Stop returns.
func NewIdle(provider IdleProvider, config IdleConfig, onEvent func(tracker.IdleKind)) *IdleMonitor {
	if config.PollInterval <= 0 {
		config.PollInterval = 10 * time.Second
	}
	if config.RestingThreshold <= 0 {
		config.RestingThreshold = 5 * time.Minute
	}
	if config.SleepingThreshold <= 0 {
		config.SleepingThreshold = 30 * time.Minute
	}
	return &IdleMonitor{
		provider: provider,
		config:   config,
		onEvent:  onEvent,
		phase:    phaseActive,
	}
}

// Start begins polling.
func (watcher *IdleMonitor) Start() {
	watcher.mu.Lock()
	if watcher.running {
		watcher.mu.Unlock()
		return
	}
	watcher.running = true
	watcher.phase = phaseActive
	watcher.stopCh = make(chan struct{})
	stopCh := watcher.stopCh
	watcher.mu.Unlock()

	go watcher.run(stopCh)
}

// Stop halts polling. No events fire after Stop returns.
func (watcher *IdleMonitor) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	watcher.running = false
	close(watcher.stopCh)
}

// UpdateConfig applies new thresholds without restarting the polling
// loop. Zero fields keep their current value.
func (watcher *IdleMonitor) UpdateConfig(config IdleConfig) {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if config.RestingThreshold > 0 {
		watcher.config.RestingThreshold = config.RestingThreshold
	}
	if config.SleepingThreshold > 0 {
		watcher.config.SleepingThreshold = config.SleepingThreshold
	}
}

// NotifySuspend forces an immediate idle-sleeping transition, bypassing
// the polling cadence. Driven by the platform power watcher.
func (watcher *IdleMonitor) NotifySuspend() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	watcher.phase = phaseSleeping
	watcher.emitLocked(tracker.IdleSleeping)
}

// NotifyResume forces an immediate idle-resume transition.
func (watcher *IdleMonitor) NotifyResume() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	watcher.phase = phaseActive
	watcher.emitLocked(tracker.IdleResume)
}

func (watcher *IdleMonitor) run(stopCh chan struct{}) {
	ticker := time.NewTicker(watcher.config.PollInterval)
	defer ticker.Stop()

	watcher.check()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			watcher.check()
		}
	}
}

func (watcher *IdleMonitor) check() {
	watcher.mu.Lock()
	if watcher.unsupported {
		watcher.mu.Unlock()
		return
	}
	watcher.mu.Unlock()

	idleFor, err := watcher.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.mu.Lock()
			watcher.unsupported = true
			watcher.mu.Unlock()
			log.Printf("idle monitor: %v", err)
			return
		}
		// Observation failures are non-fatal; the last phase is kept and
		// the next tick retries.
		log.Printf("idle monitor: %v", err)
		return
	}

	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}

	next := phaseActive
	switch {
	case idleFor >= watcher.config.SleepingThreshold:
		next = phaseSleeping
	case idleFor >= watcher.config.RestingThreshold:
		next = phaseResting
	}

	if next == watcher.phase {
		return
	}
	previous := watcher.phase
	watcher.phase = next

	switch {
	case next == phaseResting:
		watcher.emitLocked(tracker.IdleResting)
	case next == phaseSleeping:
		watcher.emitLocked(tracker.IdleSleeping)
	case next == phaseActive && previous != phaseActive:
		watcher.emitLocked(tracker.IdleResume)
	}
}

func (watcher *IdleMonitor) emitLocked(kind tracker.IdleKind) {
	if watcher.onEvent != nil {
		watcher.onEvent(kind)
	}
}
