package model

import "time"

// WorkState classifies what the user is currently doing.
type WorkState string

const (
	StateWorking     WorkState = "working"
	StateHardWorking WorkState = "hardworking"
	StateResting     WorkState = "resting"
	StateEating      WorkState = "eating"
	StateSleeping    WorkState = "sleeping"
)

// Valid reports whether state is one of the known work states.
func (state WorkState) Valid() bool {
	switch state {
	case StateWorking, StateHardWorking, StateResting, StateEating, StateSleeping:
		return true
	}
	return false
}

// Engaged reports whether time spent in state is attributed to a project.
func (state WorkState) Engaged() bool {
	return state == StateWorking || state == StateHardWorking
}

// ActiveProgram describes the foreground application at sampling time.
type ActiveProgram struct {
	Name     string
	Title    string
	BundleID string
}

// Project groups foreground programs under a user-defined activity.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Programs  []string  `json:"programs"`
	DailyGoal float64   `json:"dailyGoal"`
	CreatedAt time.Time `json:"createdAt"`
}

// WorkLog is one closed interval spent continuously in a single state.
// ProjectID is empty unless the state was engaged when the interval closed.
type WorkLog struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId,omitempty"`
	State       WorkState `json:"state"`
	ProgramName string    `json:"programName,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Duration    int64     `json:"duration"`
}

// Snapshot is the externally visible view of the tracker at one moment.
type Snapshot struct {
	State         WorkState `json:"state"`
	ProjectID     string    `json:"projectId,omitempty"`
	ProgramName   string    `json:"programName,omitempty"`
	SessionStart  time.Time `json:"sessionStartTime"`
	PreviousState WorkState `json:"previousState,omitempty"`
}
