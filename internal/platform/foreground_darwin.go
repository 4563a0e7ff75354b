//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strings"

	"worktimer/internal/core/model"
)

const frontmostScript = `tell application "System Events" to get name of first application process whose frontmost is true`

type foregroundProvider struct{}

func newForegroundProvider() ForegroundProvider {
	return &foregroundProvider{}
}

func (provider *foregroundProvider) ActiveProgram() (model.ActiveProgram, error) {
	output, err := exec.Command("osascript", "-e", frontmostScript).Output()
	if err != nil {
		return model.ActiveProgram{}, fmt.Errorf("osascript: %w", err)
	}
	name := strings.TrimSpace(string(output))
	if name == "" {
		return model.ActiveProgram{}, fmt.Errorf("osascript: empty application name")
	}
	return model.ActiveProgram{Name: name, Title: name}, nil
}
