//go:build windows

package platform

import (
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"worktimer/internal/core/model"
)

var (
	getForegroundWindow       = user32.NewProc("GetForegroundWindow")
	getWindowTextW            = user32.NewProc("GetWindowTextW")
	getWindowThreadProcessID  = user32.NewProc("GetWindowThreadProcessId")
	openProcess               = kernel32.NewProc("OpenProcess")
	closeHandle               = kernel32.NewProc("CloseHandle")
	queryFullProcessImageName = kernel32.NewProc("QueryFullProcessImageNameW")
)

const processQueryLimitedInformation = 0x1000

type foregroundProvider struct{}

func newForegroundProvider() ForegroundProvider {
	return &foregroundProvider{}
}

func (provider *foregroundProvider) ActiveProgram() (model.ActiveProgram, error) {
	handle, _, _ := getForegroundWindow.Call()
	if handle == 0 {
		return model.ActiveProgram{}, fmt.Errorf("no foreground window")
	}

	title := windowTitle(handle)

	var processID uint32
	getWindowThreadProcessID.Call(handle, uintptr(unsafe.Pointer(&processID)))
	if processID == 0 {
		return model.ActiveProgram{}, fmt.Errorf("get window process id: unknown error")
	}

	name, err := processName(processID)
	if err != nil {
		return model.ActiveProgram{}, err
	}

	return model.ActiveProgram{Name: name, Title: title}, nil
}

func windowTitle(handle uintptr) string {
	buffer := make([]uint16, 512)
	length, _, _ := getWindowTextW.Call(handle, uintptr(unsafe.Pointer(&buffer[0])), uintptr(len(buffer)))
	if length == 0 {
		return ""
	}
	return syscall.UTF16ToString(buffer[:length])
}

func processName(processID uint32) (string, error) {
	handle, _, err := openProcess.Call(processQueryLimitedInformation, 0, uintptr(processID))
	if handle == 0 {
		return "", fmt.Errorf("open process: %w", err)
	}
	defer closeHandle.Call(handle)

	buffer := make([]uint16, syscall.MAX_PATH)
	size := uint32(len(buffer))
	result, _, err := queryFullProcessImageName.Call(handle, 0, uintptr(unsafe.Pointer(&buffer[0])), uintptr(unsafe.Pointer(&size)))
	if result == 0 {
		return "", fmt.Errorf("query process image name: %w", err)
	}

	imagePath := syscall.UTF16ToString(buffer[:size])
	name := filepath.Base(imagePath)
	return strings.TrimSuffix(name, filepath.Ext(name)), nil
}
