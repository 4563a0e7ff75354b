// Package stats aggregates closed work intervals for display and export.
package stats

import (
	"fmt"
	"sort"
	"time"

	"worktimer/internal/core/model"
)

// Summary aggregates a range of work logs. All values are seconds.
type Summary struct {
	Working     int64
	HardWorking int64
	Resting     int64
	Eating      int64
	Sleeping    int64
	Engaged     int64
	Total       int64

	// ProjectSeconds maps project id to engaged seconds.
	ProjectSeconds map[string]int64

	Days []DaySummary
}

// DaySummary aggregates one calendar day within the range.
type DaySummary struct {
	Day     string
	Engaged int64
	Total   int64
}

// Summarize aggregates the given logs. Engaged time is attributed to the
// project recorded on each interval.
func Summarize(logs []model.WorkLog) Summary {
	summary := Summary{ProjectSeconds: make(map[string]int64)}
	days := make(map[string]*DaySummary)

	for _, entry := range logs {
		switch entry.State {
		case model.StateWorking:
			summary.Working += entry.Duration
		case model.StateHardWorking:
			summary.HardWorking += entry.Duration
		case model.StateResting:
			summary.Resting += entry.Duration
		case model.StateEating:
			summary.Eating += entry.Duration
		case model.StateSleeping:
			summary.Sleeping += entry.Duration
		}
		summary.Total += entry.Duration

		engaged := int64(0)
		if entry.State.Engaged() {
			engaged = entry.Duration
			summary.Engaged += entry.Duration
			if entry.ProjectID != "" {
				summary.ProjectSeconds[entry.ProjectID] += entry.Duration
			}
		}

		key := DayKey(entry.StartTime)
		day, ok := days[key]
		if !ok {
			day = &DaySummary{Day: key}
			days[key] = day
		}
		day.Engaged += engaged
		day.Total += entry.Duration
	}

	for _, day := range days {
		summary.Days = append(summary.Days, *day)
	}
	sort.Slice(summary.Days, func(i, j int) bool {
		return summary.Days[i].Day < summary.Days[j].Day
	})
	return summary
}

// DayKey returns the grouping key for a timestamp's calendar day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatSeconds renders a second count as "1h 05m".
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
