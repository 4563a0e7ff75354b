package tracker

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"worktimer/internal/core/model"
)

// minSession is the shortest interval worth persisting. Anything at or
// below it is treated as flapping and discarded.
const minSession = 5 * time.Second

// ProjectCatalog provides read access to projects and the current selection.
type ProjectCatalog interface {
	Project(id string) (model.Project, bool)
	CurrentProject() string
}

// LogStore persists closed work intervals.
type LogStore interface {
	AppendWorkLog(entry model.WorkLog) (model.WorkLog, error)
	WorkLogs(start, end time.Time) []model.WorkLog
}

// SettingsReader returns the current user settings.
type SettingsReader interface {
	Settings() model.Settings
}

// Config contains runtime options for the Tracker.
type Config struct {
	TickInterval       time.Duration
	DurationalInterval time.Duration
}

// Tracker is the activity state machine. It consumes foreground-program
// samples, idle transitions and user commands, keeps exactly one open
// session interval at a time and persists every closed interval.
type Tracker struct {
	mu       sync.Mutex
	catalog  ProjectCatalog
	logs     LogStore
	settings SettingsReader
	options  Config
	clock    func() time.Time

	state         model.WorkState
	previousState model.WorkState
	projectID     string
	programName   string
	sessionStart  time.Time

	workingStart  time.Time
	restingStart  time.Time
	engagedStart  time.Time
	remindedHours int
	lastDuration  time.Time
	goalNotified  map[string]string

	events  []chan Event
	stopCh  chan struct{}
	running bool
}

// New creates a Tracker. The initial state is Resting and the initial
// project is whatever the catalog reports as currently selected.
func New(catalog ProjectCatalog, logs LogStore, settings SettingsReader, options Config) *Tracker {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.DurationalInterval <= 0 {
		options.DurationalInterval = time.Minute
	}

	machine := &Tracker{
		catalog:      catalog,
		logs:         logs,
		settings:     settings,
		options:      options,
		clock:        time.Now,
		state:        model.StateResting,
		projectID:    catalog.CurrentProject(),
		goalNotified: make(map[string]string),
		stopCh:       make(chan struct{}),
	}
	now := machine.clock()
	machine.sessionStart = now
	machine.restingStart = now
	return machine
}

// Subscribe registers a new observer channel. Events are delivered with
// non-blocking sends; a slow observer misses events rather than stalling
// the state machine.
func (machine *Tracker) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	machine.mu.Lock()
	machine.events = append(machine.events, ch)
	machine.mu.Unlock()
	return ch
}

// Start launches the ticking loop and announces the initial state.
func (machine *Tracker) Start() {
	machine.mu.Lock()
	if machine.running {
		machine.mu.Unlock()
		return
	}
	machine.running = true
	now := machine.clock()
	machine.emitLocked(Event{
		Type:     EventStateChange,
		To:       machine.state,
		Snapshot: machine.snapshotLocked(),
		At:       now,
	})
	machine.mu.Unlock()

	go machine.run()
}

// Stop halts the ticking loop, flushes the open interval to the log store
// and closes all observer channels.
func (machine *Tracker) Stop() {
	machine.mu.Lock()
	if !machine.running {
		machine.mu.Unlock()
		return
	}
	machine.running = false
	close(machine.stopCh)

	now := machine.clock()
	machine.closeSessionLocked(now)
	machine.sessionStart = now

	events := machine.events
	machine.events = nil
	machine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Flush closes the currently open interval and starts a fresh one in the
// same state. Used before reporting so the live session is included.
func (machine *Tracker) Flush() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	now := machine.clock()
	machine.closeSessionLocked(now)
	machine.sessionStart = now
}

// Snapshot returns the current externally visible state.
func (machine *Tracker) Snapshot() model.Snapshot {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.snapshotLocked()
}

// SessionDuration returns how long the current interval has been open.
func (machine *Tracker) SessionDuration() time.Duration {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.clock().Sub(machine.sessionStart)
}

// SetProject changes the attributed project. When the state is unchanged
// the project is switched in place without closing the open interval, so
// switching projects mid-session does not fragment the timeline.
func (machine *Tracker) SetProject(projectID string) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.transitionLocked(machine.state, projectID, true, machine.clock())
}

// OnProgramChange classifies a foreground-program sample. Eating is
// sticky: program changes are ignored until the user toggles it off or
// an idle-sleeping event interrupts it.
func (machine *Tracker) OnProgramChange(program model.ActiveProgram) {
	machine.mu.Lock()
	defer machine.mu.Unlock()

	machine.programName = program.Name
	if machine.state == model.StateEating {
		return
	}
	machine.classifyLocked(program.Name, machine.clock())
}

// OnIdleEvent applies an idle transition from the idle monitor.
func (machine *Tracker) OnIdleEvent(kind IdleKind) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	now := machine.clock()

	switch kind {
	case IdleResting:
		if machine.state != model.StateEating {
			machine.transitionLocked(model.StateResting, "", false, now)
		}
	case IdleSleeping:
		machine.transitionLocked(model.StateSleeping, "", false, now)
	case IdleResume:
		if machine.state == model.StateSleeping && machine.previousState == model.StateEating {
			machine.transitionLocked(model.StateEating, "", false, now)
			return
		}
		if machine.state == model.StateResting || machine.state == model.StateSleeping {
			machine.classifyLocked(machine.programName, now)
		}
	}
}

// ToggleEating enters Eating, or restores the state that was active
// before Eating was toggled on.
func (machine *Tracker) ToggleEating() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	now := machine.clock()

	if machine.state == model.StateEating {
		restore := machine.previousState
		if !restore.Valid() || restore == model.StateEating {
			restore = model.StateResting
		}
		machine.transitionLocked(restore, "", false, now)
		return
	}
	machine.transitionLocked(model.StateEating, "", false, now)
}

// ForceState switches to an explicit state, bypassing classification.
func (machine *Tracker) ForceState(state model.WorkState) error {
	if !state.Valid() {
		return fmt.Errorf("force state: unknown state %q", state)
	}
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.transitionLocked(state, "", false, machine.clock())
	return nil
}

func (machine *Tracker) run() {
	ticker := time.NewTicker(machine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-machine.stopCh:
			return
		case tickTime := <-ticker.C:
			machine.tick(tickTime)
		}
	}
}

// tick emits the per-second UI event and, on a coarser cadence, evaluates
// the duration-based transitions (Working escalation, Resting falling
// asleep) and the hourly break reminder.
func (machine *Tracker) tick(now time.Time) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if !machine.running {
		return
	}

	machine.emitLocked(Event{
		Type:            EventTick,
		Snapshot:        machine.snapshotLocked(),
		SessionDuration: now.Sub(machine.sessionStart),
		At:              now,
	})

	if !machine.lastDuration.IsZero() && now.Sub(machine.lastDuration) < machine.options.DurationalInterval {
		return
	}
	machine.lastDuration = now

	settings := machine.settings.Settings()

	if machine.state == model.StateWorking && !machine.workingStart.IsZero() {
		threshold := time.Duration(settings.HardworkingThreshold) * time.Second
		if now.Sub(machine.workingStart) >= threshold {
			machine.transitionLocked(model.StateHardWorking, "", false, now)
		}
	}

	if machine.state == model.StateResting && !machine.restingStart.IsZero() {
		threshold := time.Duration(settings.SleepingThreshold) * time.Second
		if now.Sub(machine.restingStart) >= threshold {
			machine.transitionLocked(model.StateSleeping, "", false, now)
		}
	}

	if machine.state.Engaged() && !machine.engagedStart.IsZero() {
		hours := int(now.Sub(machine.engagedStart) / time.Hour)
		if hours > machine.remindedHours {
			machine.remindedHours = hours
			machine.emitLocked(Event{
				Type:         EventBreakDue,
				Snapshot:     machine.snapshotLocked(),
				WorkDuration: now.Sub(machine.engagedStart),
				At:           now,
			})
		}
	}
}

// classifyLocked decides the state for the given program name. An empty
// name or a missing project degrades to Resting rather than erroring.
func (machine *Tracker) classifyLocked(programName string, now time.Time) {
	if programName == "" || machine.projectID == "" {
		machine.transitionLocked(model.StateResting, "", false, now)
		return
	}

	project, ok := machine.catalog.Project(machine.projectID)
	if ok && matchesProject(project, programName) {
		// HardWorking never reverts to Working on a still-matching sample.
		if !machine.state.Engaged() {
			machine.transitionLocked(model.StateWorking, machine.projectID, true, now)
		}
		return
	}
	machine.transitionLocked(model.StateResting, machine.projectID, true, now)
}

// transitionLocked is the single transition point. It closes the open
// interval, rotates the session and announces the change. A call with an
// unchanged state only updates the project pointer in place.
func (machine *Tracker) transitionLocked(state model.WorkState, projectID string, setProject bool, now time.Time) {
	if state == machine.state {
		if setProject {
			machine.projectID = projectID
		}
		return
	}

	machine.closeSessionLocked(now)

	from := machine.state
	machine.previousState = from
	machine.state = state
	if setProject {
		machine.projectID = projectID
	}
	machine.sessionStart = now

	if from == model.StateWorking {
		machine.workingStart = time.Time{}
	}
	if from == model.StateResting {
		machine.restingStart = time.Time{}
	}
	if state == model.StateWorking {
		machine.workingStart = now
	}
	if state == model.StateResting {
		machine.restingStart = now
	}
	if state.Engaged() && !from.Engaged() {
		machine.engagedStart = now
		machine.remindedHours = 0
	}
	if !state.Engaged() {
		machine.engagedStart = time.Time{}
		machine.remindedHours = 0
	}

	machine.emitLocked(Event{
		Type:     EventStateChange,
		From:     from,
		To:       state,
		Snapshot: machine.snapshotLocked(),
		At:       now,
	})
}

// closeSessionLocked persists the open interval if it is long enough to
// matter. Only engaged intervals carry a project id. A failed write is
// logged and dropped; the in-memory transition stays authoritative.
func (machine *Tracker) closeSessionLocked(now time.Time) {
	duration := now.Sub(machine.sessionStart)
	if duration <= minSession {
		return
	}

	entry := model.WorkLog{
		State:       machine.state,
		ProgramName: machine.programName,
		StartTime:   machine.sessionStart,
		EndTime:     now,
		Duration:    int64(duration / time.Second),
	}
	if machine.state.Engaged() {
		entry.ProjectID = machine.projectID
	}

	saved, err := machine.logs.AppendWorkLog(entry)
	if err != nil {
		log.Printf("tracker: persist interval: %v", err)
		return
	}
	machine.checkGoalLocked(saved, now)
}

// checkGoalLocked fires the daily-goal event once per project per day
// when the project's engaged time for the day reaches its goal.
func (machine *Tracker) checkGoalLocked(entry model.WorkLog, now time.Time) {
	if entry.ProjectID == "" {
		return
	}
	project, ok := machine.catalog.Project(entry.ProjectID)
	if !ok || project.DailyGoal <= 0 {
		return
	}

	day := now.Format("2006-01-02")
	if machine.goalNotified[entry.ProjectID] == day {
		return
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var total int64
	for _, logged := range machine.logs.WorkLogs(midnight, now) {
		if logged.ProjectID == entry.ProjectID && logged.State.Engaged() {
			total += logged.Duration
		}
	}

	if float64(total) >= project.DailyGoal*3600 {
		machine.goalNotified[entry.ProjectID] = day
		machine.emitLocked(Event{
			Type:        EventGoalAchieved,
			Snapshot:    machine.snapshotLocked(),
			ProjectName: project.Name,
			GoalHours:   project.DailyGoal,
			At:          now,
		})
	}
}

func (machine *Tracker) snapshotLocked() model.Snapshot {
	return model.Snapshot{
		State:         machine.state,
		ProjectID:     machine.projectID,
		ProgramName:   machine.programName,
		SessionStart:  machine.sessionStart,
		PreviousState: machine.previousState,
	}
}

func (machine *Tracker) emitLocked(event Event) {
	events := append([]chan Event(nil), machine.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

// matchesProject reports whether the program name matches any of the
// project's configured patterns. Matching is case-insensitive and
// bidirectional: either string containing the other counts.
func matchesProject(project model.Project, programName string) bool {
	name := strings.ToLower(programName)
	for _, pattern := range project.Programs {
		candidate := strings.ToLower(strings.TrimSpace(pattern))
		if candidate == "" {
			continue
		}
		if strings.Contains(name, candidate) || strings.Contains(candidate, name) {
			return true
		}
	}
	return false
}
