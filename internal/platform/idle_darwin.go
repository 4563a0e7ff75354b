//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type idleProvider struct{}

func newIdleProvider() IdleProvider {
	return &idleProvider{}
}

// IdleDuration reads HIDIdleTime from the IOHID registry entry. The value
// is reported in nanoseconds.
func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4", "-k", "HIDIdleTime").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		fields := strings.Split(line, "=")
		if len(fields) != 2 {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse idle nanoseconds: %w", err)
		}
		return time.Duration(nanos), nil
	}
	return 0, fmt.Errorf("ioreg: HIDIdleTime not found")
}
