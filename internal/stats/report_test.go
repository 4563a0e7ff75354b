package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktimer/internal/core/model"
)

func TestWriteReport(t *testing.T) {
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)

	projects := []model.Project{
		{ID: "writer", Name: "Writer"},
		{ID: "idle-project", Name: "Untouched"},
	}
	logs := []model.WorkLog{
		interval(model.StateWorking, "writer", start.Add(9*time.Hour), 3600),
		interval(model.StateResting, "", start.Add(10*time.Hour), 900),
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, WriteReport(path, projects, logs, start, end))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	rawData, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(rawData[:4]))
}

func TestWriteReportEmptyRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, WriteReport(path, nil, nil, time.Now().Add(-24*time.Hour), time.Now()))
	assert.FileExists(t, path)
}
