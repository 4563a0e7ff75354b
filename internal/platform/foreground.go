package platform

import "worktimer/internal/core/model"

// ForegroundProvider returns the application owning the foreground window.
type ForegroundProvider interface {
	ActiveProgram() (model.ActiveProgram, error)
}

// NewForegroundProvider returns a platform-specific foreground provider.
func NewForegroundProvider() ForegroundProvider {
	return newForegroundProvider()
}
