package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/models"
)

// ReportScheduler periodically walks the projects and sends a progress report
// for every project whose report settings say one is due. Either messaging
// service may be nil; a channel with no backing service is skipped with a
// warning.
type ReportScheduler struct {
	projects database.ProjectStore
	whatsapp *WhatsAppService
	email    *EmailService
	interval time.Duration
	logger   zerolog.Logger
}

func NewReportScheduler(projects database.ProjectStore, whatsapp *WhatsAppService, email *EmailService, interval time.Duration) *ReportScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReportScheduler{
		projects: projects,
		whatsapp: whatsapp,
		email:    email,
		interval: interval,
		logger:   log.With().Str("handlerName", "reportScheduler").Logger(),
	}
}

// Start runs the scheduler until ctx is cancelled.
func (s *ReportScheduler) Start(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("Report scheduler started")
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("Report scheduler stopped")
				return
			case <-ticker.C:
				if err := s.RunOnce(ctx); err != nil {
					s.logger.Error().Err(err).Msg("Report run finished with errors")
				}
			}
		}
	}()
}

// RunOnce sends reports for every due project, a few in flight at a time.
func (s *ReportScheduler) RunOnce(ctx context.Context) error {
	now := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)

	for _, project := range s.projects.FindAll() {
		if !reportDue(project, now) {
			continue
		}
		project := project
		group.Go(func() error {
			return s.dispatch(groupCtx, project)
		})
	}
	return group.Wait()
}

// reportDue applies the project's own settings: reports must be enabled, and
// enough time must have passed since the last one for the configured
// frequency. A project that never reported is due immediately.
func reportDue(project models.Project, now time.Time) bool {
	settings := project.ReportSettings
	if settings == nil {
		return false
	}
	enabled, _ := settings["enabled"].(bool)
	if !enabled {
		return false
	}

	var span time.Duration
	switch settings["frequency"] {
	case "daily", nil:
		span = 24 * time.Hour
	case "weekly":
		span = 7 * 24 * time.Hour
	default:
		return false
	}

	if project.LastReportDate == nil {
		return true
	}
	return now.Sub(*project.LastReportDate) >= span
}

func (s *ReportScheduler) dispatch(ctx context.Context, project models.Project) error {
	body := BuildReport(&project)

	var failures []string
	for _, channel := range reportChannels(project.ReportSettings) {
		switch channel {
		case "whatsapp":
			to, _ := project.ReportSettings["whatsappTo"].(string)
			if s.whatsapp == nil || to == "" {
				s.logger.Warn().Uint("projectId", project.ID).Msg("WhatsApp channel configured but unavailable")
				continue
			}
			if err := s.whatsapp.Send(to, body); err != nil {
				failures = append(failures, fmt.Sprintf("whatsapp: %v", err))
			}
		case "email":
			to, _ := project.ReportSettings["emailTo"].(string)
			if s.email == nil || to == "" {
				s.logger.Warn().Uint("projectId", project.ID).Msg("Email channel configured but unavailable")
				continue
			}
			subject := fmt.Sprintf("Progress report: %s", project.Name)
			if err := s.email.Send(ctx, to, subject, "<pre>"+body+"</pre>"); err != nil {
				failures = append(failures, fmt.Sprintf("email: %v", err))
			}
		default:
			s.logger.Warn().Uint("projectId", project.ID).Interface("channel", channel).Msg("Unknown report channel")
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("project %d: %s", project.ID, strings.Join(failures, "; "))
	}

	// Stamp the last-report date through the same operation the API uses.
	stamped := make(models.ReportSettings, len(project.ReportSettings)+1)
	for k, v := range project.ReportSettings {
		stamped[k] = v
	}
	stamped["generateNow"] = true
	if _, err := s.projects.ConfigureReports(project.ID, stamped); err != nil {
		return fmt.Errorf("project %d: stamp report date: %w", project.ID, err)
	}

	s.logger.Info().Uint("projectId", project.ID).Msg("Progress report sent")
	return nil
}

func reportChannels(settings models.ReportSettings) []string {
	raw, _ := settings["channels"].([]any)
	channels := make([]string, 0, len(raw))
	for _, c := range raw {
		if name, ok := c.(string); ok {
			channels = append(channels, name)
		}
	}
	return channels
}

// BuildReport renders the plain-text progress summary for a project: overall
// progress, task counts by status, and the latest diary entries.
func BuildReport(project *models.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d%% complete\n", project.Name, project.Progress)
	fmt.Fprintf(&b, "Status: %s\n", project.Status)

	counts := map[models.TaskStatus]int{}
	for _, task := range project.Tasks {
		counts[task.Status]++
	}
	fmt.Fprintf(&b, "Tasks: %d total, %d done, %d in progress, %d blocked\n",
		len(project.Tasks), counts[models.TaskDone], counts[models.TaskInProgress], counts[models.TaskBlocked])

	if len(project.Logs) > 0 {
		b.WriteString("Recent activity:\n")
		limit := 5
		if len(project.Logs) < limit {
			limit = len(project.Logs)
		}
		for _, entry := range project.Logs[:limit] {
			fmt.Fprintf(&b, "- %s: %s\n", entry.CreatedAt.Format("Jan 2"), entry.Text)
		}
	}
	return b.String()
}
