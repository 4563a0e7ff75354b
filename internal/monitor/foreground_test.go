package monitor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktimer/internal/core/model"
)

type recordedChanges struct {
	mu       sync.Mutex
	programs []model.ActiveProgram
}

func (record *recordedChanges) add(program model.ActiveProgram) {
	record.mu.Lock()
	defer record.mu.Unlock()
	record.programs = append(record.programs, program)
}

func (record *recordedChanges) snapshot() []model.ActiveProgram {
	record.mu.Lock()
	defer record.mu.Unlock()
	return append([]model.ActiveProgram(nil), record.programs...)
}

func newForegroundFixture() (*ForegroundMonitor, *recordedChanges) {
	record := &recordedChanges{}
	watcher := NewForeground(nil, ForegroundConfig{}, record.add)
	watcher.running = true
	watcher.stopCh = make(chan struct{})
	return watcher, record
}

func TestForegroundEmitsOnlyOnChange(t *testing.T) {
	watcher, record := newForegroundFixture()

	code := model.ActiveProgram{Name: "code", Title: "main.go"}
	watcher.apply(foregroundSample{program: code})
	watcher.apply(foregroundSample{program: code})
	watcher.apply(foregroundSample{program: model.ActiveProgram{Name: "code", Title: "other.go"}})
	watcher.apply(foregroundSample{program: model.ActiveProgram{Name: "firefox", Title: "docs"}})

	changes := record.snapshot()
	require.Len(t, changes, 3, "identical consecutive samples are suppressed")
	assert.Equal(t, "code", changes[0].Name)
	assert.Equal(t, "other.go", changes[1].Title)
	assert.Equal(t, "firefox", changes[2].Name)

	current := watcher.Current()
	require.NotNil(t, current)
	assert.Equal(t, "firefox", current.Name)
}

func TestForegroundSkipsFailedAndEmptySamples(t *testing.T) {
	watcher, record := newForegroundFixture()

	watcher.apply(foregroundSample{err: errors.New("xdotool: cannot open display")})
	watcher.apply(foregroundSample{program: model.ActiveProgram{Title: "no name"}})
	assert.Empty(t, record.snapshot())
	assert.Nil(t, watcher.Current())

	code := model.ActiveProgram{Name: "code"}
	watcher.apply(foregroundSample{program: code})
	watcher.apply(foregroundSample{err: errors.New("transient")})
	current := watcher.Current()
	require.NotNil(t, current, "a failed sample keeps the last known program")
	assert.Equal(t, "code", current.Name)
}

func TestForegroundNoDeliveryAfterStop(t *testing.T) {
	watcher, record := newForegroundFixture()

	watcher.Stop()
	watcher.apply(foregroundSample{program: model.ActiveProgram{Name: "code"}})

	assert.Empty(t, record.snapshot(), "a late result is dropped, not applied")
	assert.Nil(t, watcher.Current())
}

type blockingForeground struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func (provider *blockingForeground) ActiveProgram() (model.ActiveProgram, error) {
	provider.once.Do(func() { close(provider.started) })
	<-provider.release
	return model.ActiveProgram{Name: "late"}, nil
}

func TestForegroundStopDropsInFlightQuery(t *testing.T) {
	provider := &blockingForeground{
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	record := &recordedChanges{}
	watcher := NewForeground(provider, ForegroundConfig{PollInterval: time.Hour}, record.add)

	watcher.Start()
	<-provider.started
	watcher.Stop()
	close(provider.release)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, record.snapshot())
}

type sequencedForeground struct {
	mu      sync.Mutex
	samples []model.ActiveProgram
	next    int
}

func (provider *sequencedForeground) ActiveProgram() (model.ActiveProgram, error) {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	sample := provider.samples[provider.next]
	if provider.next+1 < len(provider.samples) {
		provider.next++
	}
	return sample, nil
}

func TestForegroundPollingLoop(t *testing.T) {
	provider := &sequencedForeground{samples: []model.ActiveProgram{
		{Name: "code"},
		{Name: "code"},
		{Name: "firefox"},
	}}
	record := &recordedChanges{}
	watcher := NewForeground(provider, ForegroundConfig{PollInterval: 5 * time.Millisecond}, record.add)

	watcher.Start()
	defer watcher.Stop()

	require.Eventually(t, func() bool {
		return len(record.snapshot()) >= 2
	}, time.Second, 5*time.Millisecond)

	changes := record.snapshot()
	assert.Equal(t, "code", changes[0].Name)
	assert.Equal(t, "firefox", changes[1].Name)
}
