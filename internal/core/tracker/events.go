package tracker

import (
	"time"

	"worktimer/internal/core/model"
)

// IdleKind identifies an idle transition reported by the idle monitor.
type IdleKind string

const (
	IdleResting  IdleKind = "idle-resting"
	IdleSleeping IdleKind = "idle-sleeping"
	IdleResume   IdleKind = "idle-resume"
)

// EventType defines the type of tracker event.
type EventType string

const (
	// EventStateChange fires on every completed state transition.
	EventStateChange EventType = "state_change"
	// EventTick fires once per tick interval with the live session duration.
	// Tick events are for display only and are never persisted.
	EventTick EventType = "tick"
	// EventBreakDue fires once per continuous hour of engaged work.
	EventBreakDue EventType = "break_due"
	// EventGoalAchieved fires when a project's daily goal is first reached.
	EventGoalAchieved EventType = "goal_achieved"
)

// Event represents a tracker update for observers.
type Event struct {
	Type            EventType
	Snapshot        model.Snapshot
	From            model.WorkState
	To              model.WorkState
	SessionDuration time.Duration
	WorkDuration    time.Duration
	ProjectName     string
	GoalHours       float64
	At              time.Time
}
