package stats

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"worktimer/internal/core/model"
)

// WriteReport renders a PDF summary of the given range to path.
func WriteReport(path string, projects []model.Project, logs []model.WorkLog, start, end time.Time) error {
	summary := Summarize(logs)

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Work Time Report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				dateRange := fmt.Sprintf("%s - %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
				m.Text(dateRange, props.Text{
					Top:   3,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	tableProps := props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{6, 6},
		},
		ContentProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{6, 6},
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	}

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Time by state", props.Text{Top: 5, Style: consts.Bold, Size: 14})
		})
	})
	m.TableList([]string{"State", "Time"}, [][]string{
		{"Working", FormatSeconds(summary.Working)},
		{"Hard working", FormatSeconds(summary.HardWorking)},
		{"Resting", FormatSeconds(summary.Resting)},
		{"Eating", FormatSeconds(summary.Eating)},
		{"Sleeping", FormatSeconds(summary.Sleeping)},
		{"Total engaged", FormatSeconds(summary.Engaged)},
	}, tableProps)

	if len(summary.ProjectSeconds) > 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Time by project", props.Text{Top: 5, Style: consts.Bold, Size: 14})
			})
		})
		rows := [][]string{}
		for _, project := range projects {
			seconds, ok := summary.ProjectSeconds[project.ID]
			if !ok {
				continue
			}
			rows = append(rows, []string{project.Name, FormatSeconds(seconds)})
		}
		m.TableList([]string{"Project", "Time"}, rows, tableProps)
	}

	if len(summary.Days) > 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Daily totals", props.Text{Top: 5, Style: consts.Bold, Size: 14})
			})
		})
		dayProps := tableProps
		dayProps.HeaderProp.GridSizes = []uint{4, 4, 4}
		dayProps.ContentProp.GridSizes = []uint{4, 4, 4}
		rows := [][]string{}
		for _, day := range summary.Days {
			rows = append(rows, []string{day.Day, FormatSeconds(day.Engaged), FormatSeconds(day.Total)})
		}
		m.TableList([]string{"Day", "Engaged", "Tracked"}, rows, dayProps)
	}

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
