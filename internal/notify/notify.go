// Package notify turns tracker events into OS notifications. It is a
// pure observer of the event stream and never feeds back into the
// state machine.
package notify

import (
	"fmt"
	"time"

	"worktimer/internal/core/model"
	"worktimer/internal/core/tracker"
)

var stateLabels = map[model.WorkState]string{
	model.StateWorking:     "Working",
	model.StateHardWorking: "Hard working",
	model.StateResting:     "Resting",
	model.StateEating:      "Eating",
	model.StateSleeping:    "Sleeping",
}

// Notifier delivers one message to the OS notification surface.
type Notifier interface {
	Notify(title, body string)
}

// SettingsReader exposes the notification toggles.
type SettingsReader interface {
	Settings() model.Settings
}

// Dispatcher consumes tracker events and surfaces the enabled ones.
type Dispatcher struct {
	notifier Notifier
	settings SettingsReader
}

// New creates a dispatcher.
func New(notifier Notifier, settings SettingsReader) *Dispatcher {
	return &Dispatcher{notifier: notifier, settings: settings}
}

// Run consumes events until the channel closes. Intended to run on its
// own goroutine over a tracker subscription.
func (dispatcher *Dispatcher) Run(events <-chan tracker.Event) {
	for event := range events {
		dispatcher.Handle(event)
	}
}

// Handle dispatches a single event.
func (dispatcher *Dispatcher) Handle(event tracker.Event) {
	toggles := dispatcher.settings.Settings().Notifications

	switch event.Type {
	case tracker.EventStateChange:
		if !toggles.StateChange || event.From == "" {
			return
		}
		dispatcher.notifier.Notify(
			"State changed",
			fmt.Sprintf("Switched from %s to %s", stateLabel(event.From), stateLabel(event.To)),
		)
	case tracker.EventGoalAchieved:
		if !toggles.GoalAchieved {
			return
		}
		dispatcher.notifier.Notify(
			"Daily goal achieved!",
			fmt.Sprintf("You reached the %gh daily goal for %s", event.GoalHours, event.ProjectName),
		)
	case tracker.EventBreakDue:
		if !toggles.StateChange {
			return
		}
		dispatcher.notifier.Notify(
			"Time for a break",
			fmt.Sprintf("You have been working for %s. Step away for a moment.", formatWorkDuration(event.WorkDuration)),
		)
	}
}

func stateLabel(state model.WorkState) string {
	if label, ok := stateLabels[state]; ok {
		return label
	}
	return string(state)
}

func formatWorkDuration(duration time.Duration) string {
	totalMinutes := int(duration / time.Minute)
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours == 0 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	if minutes == 0 {
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d hours %d minutes", hours, minutes)
}
