// Package tray maintains the system tray menu: live status, project
// selection, the eating toggle and manual state overrides.
package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"worktimer/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnSelectProject func(projectID string)
	OnToggleEating  func()
	OnForceState    func(state model.WorkState)
	OnExportReport  func()
	OnOpenDataDir   func()
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app       desktop.App
	callbacks Callbacks

	statusLabel string
	eating      bool
	projects    []model.Project
	selectedID  string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}
	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line shown at the top of the menu.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshMenu()
}

// SetEating flips the eating menu item label.
func (manager *Manager) SetEating(eating bool) {
	manager.eating = eating
	manager.refreshMenu()
}

// SetProjects replaces the project submenu entries.
func (manager *Manager) SetProjects(projects []model.Project, selectedID string) {
	manager.projects = projects
	manager.selectedID = selectedID
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	statusItem := fyne.NewMenuItem(fmt.Sprintf("Status: %s", manager.statusLabel), nil)
	statusItem.Disabled = true

	projectMenu := fyne.NewMenuItem("Project", nil)
	noneItem := fyne.NewMenuItem("None", func() {
		if manager.callbacks.OnSelectProject != nil {
			manager.callbacks.OnSelectProject("")
		}
	})
	noneItem.Checked = manager.selectedID == ""
	projectItems := []*fyne.MenuItem{noneItem}
	for _, project := range manager.projects {
		projectID := project.ID
		item := fyne.NewMenuItem(project.Name, func() {
			if manager.callbacks.OnSelectProject != nil {
				manager.callbacks.OnSelectProject(projectID)
			}
		})
		item.Checked = projectID == manager.selectedID
		projectItems = append(projectItems, item)
	}
	projectMenu.ChildMenu = fyne.NewMenu("", projectItems...)

	eatingLabel := "Start eating"
	if manager.eating {
		eatingLabel = "Stop eating"
	}
	eatingItem := fyne.NewMenuItem(eatingLabel, func() {
		if manager.callbacks.OnToggleEating != nil {
			manager.callbacks.OnToggleEating()
		}
	})

	forceMenu := fyne.NewMenuItem("Set state", nil)
	forceMenu.ChildMenu = fyne.NewMenu("",
		forceItem(manager, "Working", model.StateWorking),
		forceItem(manager, "Hard working", model.StateHardWorking),
		forceItem(manager, "Resting", model.StateResting),
		forceItem(manager, "Sleeping", model.StateSleeping),
	)

	reportItem := fyne.NewMenuItem("Export report...", func() {
		if manager.callbacks.OnExportReport != nil {
			manager.callbacks.OnExportReport()
		}
	})

	openDataItem := fyne.NewMenuItem("Open data folder", func() {
		if manager.callbacks.OnOpenDataDir != nil {
			manager.callbacks.OnOpenDataDir()
		}
	})

	quitItem := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})

	manager.app.SetSystemTrayMenu(fyne.NewMenu("WorkTimer",
		statusItem,
		projectMenu,
		eatingItem,
		forceMenu,
		reportItem,
		openDataItem,
		quitItem,
	))
}

func forceItem(manager *Manager, label string, state model.WorkState) *fyne.MenuItem {
	return fyne.NewMenuItem(label, func() {
		if manager.callbacks.OnForceState != nil {
			manager.callbacks.OnForceState(state)
		}
	})
}
