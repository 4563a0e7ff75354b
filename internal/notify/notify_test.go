package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktimer/internal/core/model"
	"worktimer/internal/core/tracker"
)

type recordedNotification struct {
	title string
	body  string
}

type fakeNotifier struct {
	sent []recordedNotification
}

func (notifier *fakeNotifier) Notify(title, body string) {
	notifier.sent = append(notifier.sent, recordedNotification{title: title, body: body})
}

type staticSettings struct {
	settings model.Settings
}

func (reader *staticSettings) Settings() model.Settings {
	return reader.settings
}

func newDispatcher(toggles model.NotificationSettings) (*Dispatcher, *fakeNotifier) {
	notifier := &fakeNotifier{}
	settings := model.DefaultSettings()
	settings.Notifications = toggles
	return New(notifier, &staticSettings{settings: settings}), notifier
}

func TestStateChangeNotification(t *testing.T) {
	dispatcher, notifier := newDispatcher(model.NotificationSettings{StateChange: true})

	dispatcher.Handle(tracker.Event{
		Type: tracker.EventStateChange,
		From: model.StateResting,
		To:   model.StateHardWorking,
	})

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "State changed", notifier.sent[0].title)
	assert.Equal(t, "Switched from Resting to Hard working", notifier.sent[0].body)
}

func TestInitialAnnouncementIsSilent(t *testing.T) {
	dispatcher, notifier := newDispatcher(model.NotificationSettings{StateChange: true})

	dispatcher.Handle(tracker.Event{
		Type: tracker.EventStateChange,
		To:   model.StateResting,
	})
	assert.Empty(t, notifier.sent, "the startup announcement has no From state")
}

func TestDisabledTogglesSuppressNotifications(t *testing.T) {
	dispatcher, notifier := newDispatcher(model.NotificationSettings{})

	dispatcher.Handle(tracker.Event{
		Type: tracker.EventStateChange,
		From: model.StateResting,
		To:   model.StateWorking,
	})
	dispatcher.Handle(tracker.Event{
		Type:        tracker.EventGoalAchieved,
		ProjectName: "Writer",
		GoalHours:   2,
	})
	dispatcher.Handle(tracker.Event{
		Type:         tracker.EventBreakDue,
		WorkDuration: time.Hour,
	})

	assert.Empty(t, notifier.sent)
}

func TestGoalAchievedNotification(t *testing.T) {
	dispatcher, notifier := newDispatcher(model.NotificationSettings{GoalAchieved: true})

	dispatcher.Handle(tracker.Event{
		Type:        tracker.EventGoalAchieved,
		ProjectName: "Writer",
		GoalHours:   1.5,
	})

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Daily goal achieved!", notifier.sent[0].title)
	assert.Contains(t, notifier.sent[0].body, "1.5h")
	assert.Contains(t, notifier.sent[0].body, "Writer")
}

func TestBreakDueNotification(t *testing.T) {
	dispatcher, notifier := newDispatcher(model.NotificationSettings{StateChange: true})

	dispatcher.Handle(tracker.Event{
		Type:         tracker.EventBreakDue,
		WorkDuration: time.Hour + 5*time.Minute,
	})

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Time for a break", notifier.sent[0].title)
	assert.Contains(t, notifier.sent[0].body, "1 hours 5 minutes")
}

func TestTickEventsAreIgnored(t *testing.T) {
	dispatcher, notifier := newDispatcher(model.NotificationSettings{
		StateChange:  true,
		GoalAchieved: true,
	})

	dispatcher.Handle(tracker.Event{Type: tracker.EventTick})
	assert.Empty(t, notifier.sent)
}

func TestFormatWorkDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{45 * time.Minute, "45 minutes"},
		{time.Hour, "1 hours"},
		{2 * time.Hour, "2 hours"},
		{90 * time.Minute, "1 hours 30 minutes"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatWorkDuration(tt.duration))
	}
}
