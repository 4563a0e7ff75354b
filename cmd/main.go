package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"worktimer/internal/config"
	"worktimer/internal/core/model"
	"worktimer/internal/core/tracker"
	"worktimer/internal/monitor"
	"worktimer/internal/notify"
	"worktimer/internal/platform"
	"worktimer/internal/stats"
	"worktimer/internal/storage"
	"worktimer/internal/ui/tray"
)

const appName = "WorkTimer"

var stateLabels = map[model.WorkState]string{
	model.StateWorking:     "Working",
	model.StateHardWorking: "Hard working",
	model.StateResting:     "Resting",
	model.StateEating:      "Eating",
	model.StateSleeping:    "Sleeping",
}

type fyneNotifier struct {
	app fyne.App
}

func (notifier fyneNotifier) Notify(title, body string) {
	notifier.app.SendNotification(fyne.NewNotification(title, body))
}

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	appConfig, err := config.Load(appName)
	if err != nil {
		log.Printf("load config: %v (using defaults)", err)
	}

	dataDir, err := appConfig.ResolveDataDir(appName)
	if err != nil {
		log.Printf("resolve data dir: %v", err)
		return
	}
	store, err := storage.Open(dataDir)
	if err != nil {
		log.Printf("open store: %v", err)
		return
	}

	fyneApp := app.NewWithID("com.worktimer.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("WorkTimer is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	machine := tracker.New(store, store, store, tracker.Config{TickInterval: time.Second})

	dispatcher := notify.New(fyneNotifier{app: fyneApp}, store)
	go dispatcher.Run(machine.Subscribe(10))

	settings := store.Settings()
	idleMonitor := monitor.NewIdle(platform.NewIdleProvider(), monitor.IdleConfig{
		RestingThreshold:  time.Duration(settings.RestingThreshold) * time.Second,
		SleepingThreshold: time.Duration(settings.SleepingThreshold) * time.Second,
		PollInterval:      appConfig.IdlePoll,
	}, machine.OnIdleEvent)

	foregroundMonitor := monitor.NewForeground(platform.NewForegroundProvider(), monitor.ForegroundConfig{
		PollInterval: appConfig.ForegroundPoll,
	}, machine.OnProgramChange)

	powerCtx, stopPower := context.WithCancel(context.Background())
	go func() {
		if err := platform.WatchPower(powerCtx, platform.PowerEvents{
			OnSuspend: idleMonitor.NotifySuspend,
			OnResume:  idleMonitor.NotifyResume,
		}); err != nil {
			log.Printf("power watch: %v", err)
		}
	}()

	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnSelectProject: func(projectID string) {
			if err := store.SetCurrentProject(projectID); err != nil {
				log.Printf("select project: %v", err)
				return
			}
			machine.SetProject(projectID)
			// Re-run classification so work starts without waiting for
			// the next foreground change.
			if program := foregroundMonitor.Current(); program != nil {
				machine.OnProgramChange(*program)
			}
			trayManager.SetProjects(store.Projects(), projectID)
		},
		OnToggleEating: func() {
			machine.ToggleEating()
		},
		OnForceState: func(state model.WorkState) {
			if err := machine.ForceState(state); err != nil {
				log.Printf("force state: %v", err)
			}
		},
		OnExportReport: func() {
			machine.Flush()
			end := time.Now()
			start := end.AddDate(0, 0, -30)
			reportPath := filepath.Join(dataDir, fmt.Sprintf("worktimer-report-%s.pdf", end.Format("2006-01-02")))
			err := stats.WriteReport(reportPath, store.Projects(), store.WorkLogs(start, end), start, end)
			if err != nil {
				log.Printf("export report: %v", err)
				fyneApp.SendNotification(fyne.NewNotification("Report failed", err.Error()))
				return
			}
			fyneApp.SendNotification(fyne.NewNotification("Report exported", reportPath))
		},
		OnOpenDataDir: func() {
			dirURL := &url.URL{Scheme: "file", Path: dataDir}
			if err := fyneApp.OpenURL(dirURL); err != nil {
				log.Printf("open data dir: %v", err)
			}
		},
		OnQuit: func() {
			foregroundMonitor.Stop()
			idleMonitor.Stop()
			stopPower()
			machine.Stop()
			fyneApp.Quit()
		},
	})
	trayManager.SetProjects(store.Projects(), store.CurrentProject())

	events := machine.Subscribe(10)
	go func() {
		for event := range events {
			switch event.Type {
			case tracker.EventStateChange:
				snapshot := event.Snapshot
				eating := event.To == model.StateEating
				fyne.Do(func() {
					trayManager.SetEating(eating)
					trayManager.SetStatus(statusText(snapshot, 0))
				})
			case tracker.EventTick:
				snapshot := event.Snapshot
				duration := event.SessionDuration
				fyne.Do(func() {
					trayManager.SetStatus(statusText(snapshot, duration))
				})
			}
		}
	}()

	syncAutostart(settings.AutoStart)

	machine.Start()
	foregroundMonitor.Start()
	idleMonitor.Start()

	fyneApp.Run()
}

func syncAutostart(enabled bool) {
	service := platform.NewService()
	if !enabled {
		if err := service.DisableAutostart(appName); err != nil {
			log.Printf("disable autostart: %v", err)
		}
		return
	}
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("enable autostart: %v", err)
		return
	}
	if err := service.EnableAutostart(appName, execPath); err != nil {
		log.Printf("enable autostart: %v", err)
	}
}

func statusText(snapshot model.Snapshot, sessionDuration time.Duration) string {
	label, ok := stateLabels[snapshot.State]
	if !ok {
		label = string(snapshot.State)
	}
	if sessionDuration <= 0 {
		return label
	}
	seconds := int(sessionDuration.Seconds())
	return fmt.Sprintf("%s %02d:%02d", label, seconds/60, seconds%60)
}
