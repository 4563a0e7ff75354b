//go:build linux

package platform

import (
	"fmt"
	"os/exec"
	"strings"

	"worktimer/internal/core/model"
)

type foregroundProvider struct {
	xdotoolPath string
	xpropPath   string
}

func newForegroundProvider() ForegroundProvider {
	xdotool, err := exec.LookPath("xdotool")
	if err != nil {
		return unsupportedForegroundProvider{}
	}
	xprop, _ := exec.LookPath("xprop")
	return &foregroundProvider{xdotoolPath: xdotool, xpropPath: xprop}
}

func (provider *foregroundProvider) ActiveProgram() (model.ActiveProgram, error) {
	windowID, err := provider.command(provider.xdotoolPath, "getactivewindow")
	if err != nil {
		return model.ActiveProgram{}, fmt.Errorf("active window id: %w", err)
	}

	title, err := provider.command(provider.xdotoolPath, "getwindowname", windowID)
	if err != nil {
		return model.ActiveProgram{}, fmt.Errorf("window title: %w", err)
	}

	name := provider.windowClass(windowID)
	if name == "" {
		name = title
	}

	return model.ActiveProgram{Name: name, Title: title}, nil
}

func (provider *foregroundProvider) command(path string, args ...string) (string, error) {
	output, err := exec.Command(path, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// windowClass extracts the application name from WM_CLASS, which looks
// like: WM_CLASS(STRING) = "navigator", "Firefox". The second value is
// the application class.
func (provider *foregroundProvider) windowClass(windowID string) string {
	if provider.xpropPath == "" {
		return ""
	}
	output, err := provider.command(provider.xpropPath, "-id", windowID, "WM_CLASS")
	if err != nil {
		return ""
	}
	fields := strings.Split(output, "=")
	if len(fields) != 2 {
		return ""
	}
	values := strings.Split(fields[1], ",")
	last := strings.TrimSpace(values[len(values)-1])
	return strings.Trim(last, `"`)
}

type unsupportedForegroundProvider struct{}

func (unsupportedForegroundProvider) ActiveProgram() (model.ActiveProgram, error) {
	return model.ActiveProgram{}, fmt.Errorf("foreground detection requires xdotool")
}
