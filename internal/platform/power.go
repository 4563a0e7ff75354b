package platform

import "context"

// PowerEvents receives system suspend and resume notifications.
type PowerEvents struct {
	OnSuspend func()
	OnResume  func()
}

// WatchPower delivers suspend/resume signals until ctx is cancelled.
// On platforms without a power signal source it blocks until cancellation
// and returns nil.
func WatchPower(ctx context.Context, events PowerEvents) error {
	return watchPower(ctx, events)
}
