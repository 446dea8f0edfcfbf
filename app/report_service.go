package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// NoLogsMessage is returned when the requested window has no entries
const NoLogsMessage = "No logs found for the specified period."

// UsageRecorder records token usage of a generation; implementations must
// not block the caller.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, userID string, reportID *uuid.UUID, operationType string, usage *ports.UsageData) error
}

// GenerateReportRequest is the client's report request
type GenerateReportRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Title     string `json:"title"`
}

// GenerateReportResult carries either a new report or an informational
// message when nothing was generated.
type GenerateReportResult struct {
	Report  *models.Report
	Message string
}

// ReportService runs the report workflow and serves report history
type ReportService struct {
	logs      ports.LogRepository
	reports   ports.ReportRepository
	users     ports.UserRepository
	generator *NarrativeGenerator
	gate      *CooldownGate
	usage     UsageRecorder
	inflight  *semaphore.Weighted
	now       func() time.Time
}

// NewReportService wires the workflow. maxConcurrent bounds generation
// calls across all requests; usage may be nil.
func NewReportService(
	logs ports.LogRepository,
	reports ports.ReportRepository,
	users ports.UserRepository,
	generator *NarrativeGenerator,
	gate *CooldownGate,
	usage UsageRecorder,
	maxConcurrent int,
	now func() time.Time,
) *ReportService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		logs:      logs,
		reports:   reports,
		users:     users,
		generator: generator,
		gate:      gate,
		usage:     usage,
		inflight:  semaphore.NewWeighted(int64(maxConcurrent)),
		now:       now,
	}
}

// Generate validates, gates, fetches, compiles, generates and persists a
// report for ownerID. Nothing is written unless generation succeeds.
func (s *ReportService) Generate(ctx context.Context, ownerID string, req GenerateReportRequest) (*GenerateReportResult, error) {
	// 1. Validate
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.ValidationError("Title is required")
	}
	window, err := ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	// 2. Gate check
	user, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}
	observedLast := user.LastReportGeneratedAt
	if status := s.gate.Check(observedLast); !status.Eligible {
		return nil, errors.RateLimited(fmt.Sprintf("You can generate a new report in %d day(s).", status.DaysLeft))
	}

	// 3. Fetch
	entries, err := s.logs.ListInRange(ctx, ownerID, window.From, window.To)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch logs")
	}
	if len(entries) == 0 {
		log.Printf("[ReportService] no logs for user %s between %s and %s", ownerID, req.StartDate, req.EndDate)
		return &GenerateReportResult{Message: NoLogsMessage}, nil
	}

	// 4. Compile
	compiled := CompileLogs(entries)

	// 5. Generate
	if err := s.inflight.Acquire(ctx, 1); err != nil {
		return nil, errors.ExternalServiceError("report generation", err)
	}
	narrative, err := s.generator.Generate(ctx, req.StartDate, req.EndDate, compiled)
	s.inflight.Release(1)
	if err != nil {
		return nil, err
	}

	// 6. Persist report and advance the cooldown together
	report := &models.Report{
		UserID:      ownerID,
		Title:       title,
		StartDate:   window.StartDate,
		EndDate:     window.EndDate,
		GeneratedAt: s.now().UTC(),
		Content:     narrative.Text,
	}
	if err := s.reports.CommitGeneration(ctx, report, observedLast); err != nil {
		return nil, errors.Wrap(err, "failed to save report")
	}

	if s.usage != nil && narrative.Usage != nil {
		reportID := report.ID
		if err := s.usage.RecordUsage(ctx, ownerID, &reportID, models.OpReportGeneration, narrative.Usage); err != nil {
			log.Printf("[ReportService] usage tracking failed for report %s: %v", report.ID, err)
		}
	}

	log.Printf("[ReportService] generated report %s for user %s from %d logs", report.ID, ownerID, len(entries))

	// 7. Respond
	return &GenerateReportResult{Report: report}, nil
}

// Cooldown returns the caller's current eligibility
func (s *ReportService) Cooldown(ctx context.Context, ownerID string) (CooldownStatus, error) {
	user, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return CooldownStatus{}, errors.Wrap(err, "failed to load user")
	}
	return s.gate.Check(user.LastReportGeneratedAt), nil
}

// List returns report history newest first; limit <= 0 returns everything
func (s *ReportService) List(ctx context.Context, ownerID string, limit int) ([]models.Report, error) {
	reports, err := s.reports.List(ctx, ownerID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reports")
	}
	return reports, nil
}

// Get returns one report owned by ownerID
func (s *ReportService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.UserID != ownerID {
		return nil, errors.Forbidden("Forbidden")
	}
	return report, nil
}
