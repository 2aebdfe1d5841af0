package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studioaurea/atelier-backend/models"
)

func TestReportDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	dayAgo := now.Add(-25 * time.Hour)
	hourAgo := now.Add(-time.Hour)
	weekAgo := now.Add(-8 * 24 * time.Hour)

	cases := []struct {
		name    string
		project models.Project
		want    bool
	}{
		{"no settings", models.Project{}, false},
		{"disabled", models.Project{ReportSettings: models.ReportSettings{"enabled": false}}, false},
		{"enabled never reported", models.Project{ReportSettings: models.ReportSettings{"enabled": true}}, true},
		{
			"daily overdue",
			models.Project{
				ReportSettings: models.ReportSettings{"enabled": true, "frequency": "daily"},
				LastReportDate: &dayAgo,
			},
			true,
		},
		{
			"daily not yet due",
			models.Project{
				ReportSettings: models.ReportSettings{"enabled": true, "frequency": "daily"},
				LastReportDate: &hourAgo,
			},
			false,
		},
		{
			"weekly overdue",
			models.Project{
				ReportSettings: models.ReportSettings{"enabled": true, "frequency": "weekly"},
				LastReportDate: &weekAgo,
			},
			true,
		},
		{
			"weekly recently sent",
			models.Project{
				ReportSettings: models.ReportSettings{"enabled": true, "frequency": "weekly"},
				LastReportDate: &dayAgo,
			},
			false,
		},
		{
			"unknown frequency",
			models.Project{ReportSettings: models.ReportSettings{"enabled": true, "frequency": "hourly"}},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, reportDue(tc.project, now))
		})
	}
}

func TestBuildReport(t *testing.T) {
	project := &models.Project{
		Name:     "Riverside Loft",
		Status:   models.ProjectInProgress,
		Progress: 67,
		Tasks: models.TaskList{
			{ID: 1, Name: "a", Status: models.TaskDone},
			{ID: 2, Name: "b", Status: models.TaskDone},
			{ID: 3, Name: "c", Status: models.TaskBlocked},
		},
		Logs: models.LogList{
			{ID: 2, Text: "lighting installed", CreatedAt: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
			{ID: 1, Text: "walls painted", CreatedAt: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)},
		},
	}

	report := BuildReport(project)
	require.Contains(t, report, "Riverside Loft: 67% complete")
	require.Contains(t, report, "3 total, 2 done, 0 in progress, 1 blocked")
	require.Contains(t, report, "Jun 9: lighting installed")
	require.Contains(t, report, "Jun 8: walls painted")
}

func TestReportChannels(t *testing.T) {
	settings := models.ReportSettings{
		"channels": []any{"whatsapp", "email", 42},
	}
	require.Equal(t, []string{"whatsapp", "email"}, reportChannels(settings))
	require.Empty(t, reportChannels(models.ReportSettings{}))
}
