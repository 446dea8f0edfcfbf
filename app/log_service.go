package app

import (
	"context"
	"log"
	"strings"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DashboardLogLimit is how many recent entries the dashboard shows
const DashboardLogLimit = 10

// LogRequest is the client payload for creating or editing a log entry
type LogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Duration  *int   `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// LogService owns log entry mutations and dashboard reads
type LogService struct {
	logs ports.LogRepository
	now  func() time.Time
}

// NewLogService creates a log service
func NewLogService(logs ports.LogRepository, now func() time.Time) *LogService {
	if now == nil {
		now = time.Now
	}
	return &LogService{logs: logs, now: now}
}

// Create stores a new entry for ownerID
func (s *LogService) Create(ctx context.Context, ownerID string, req LogRequest) (*models.LogEntry, error) {
	entry, err := s.buildEntry(ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, errors.Wrap(err, "failed to create log")
	}
	return entry, nil
}

// Update replaces an entry; entries of other owners are reported as missing
func (s *LogService) Update(ctx context.Context, ownerID string, id uuid.UUID, req LogRequest) (*models.LogEntry, error) {
	existing, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != ownerID {
		return nil, errors.NotFound("Log")
	}

	if strings.TrimSpace(req.Timestamp) == "" {
		req.Timestamp = existing.Timestamp.Format(time.RFC3339Nano)
	}
	entry, err := s.buildEntry(ownerID, req)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	if err := s.logs.Update(ctx, entry); err != nil {
		return nil, errors.Wrap(err, "failed to update log")
	}
	return entry, nil
}

// Delete removes an owned entry
func (s *LogService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.logs.Delete(ctx, ownerID, id); err != nil {
		return errors.Wrap(err, "failed to delete log")
	}
	return nil
}

// Summary returns the dashboard view: recent entries plus per-category counts
func (s *LogService) Summary(ctx context.Context, ownerID string) (*models.LogSummary, error) {
	summary := &models.LogSummary{}
	technical := models.CategoryTechnical
	nonTechnical := models.CategoryNonTechnical

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs, err := s.logs.ListRecent(gctx, ownerID, DashboardLogLimit)
		summary.Logs = logs
		return err
	})
	g.Go(func() error {
		n, err := s.logs.Count(gctx, ownerID, nil)
		summary.TotalLogs = n
		return err
	})
	g.Go(func() error {
		n, err := s.logs.Count(gctx, ownerID, &technical)
		summary.TechnicalLogs = n
		return err
	})
	g.Go(func() error {
		n, err := s.logs.Count(gctx, ownerID, &nonTechnical)
		summary.NonTechnicalLogs = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to load dashboard")
	}

	if summary.Logs == nil {
		summary.Logs = []models.LogEntry{}
	}
	return summary, nil
}

// ListRange returns the owner's entries inside an inclusive date window
func (s *LogService) ListRange(ctx context.Context, ownerID, start, end string) ([]models.LogEntry, error) {
	window, err := ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ListInRange(ctx, ownerID, window.From, window.To)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch logs")
	}
	if logs == nil {
		logs = []models.LogEntry{}
	}
	return logs, nil
}

// All returns every entry the owner has, newest first
func (s *LogService) All(ctx context.Context, ownerID string) ([]models.LogEntry, error) {
	logs, err := s.logs.ListRecent(ctx, ownerID, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch logs")
	}
	return logs, nil
}

// Stats summarises durations over a window, or over everything when both
// bounds are empty.
func (s *LogService) Stats(ctx context.Context, ownerID, start, end string) (*models.DurationStats, error) {
	var (
		logs []models.LogEntry
		err  error
	)
	if strings.TrimSpace(start) == "" && strings.TrimSpace(end) == "" {
		logs, err = s.All(ctx, ownerID)
	} else {
		logs, err = s.ListRange(ctx, ownerID, start, end)
	}
	if err != nil {
		return nil, err
	}

	stats, err := ComputeDurationStats(logs)
	if err != nil {
		log.Printf("[LogService] stats computation failed for user %s: %v", ownerID, err)
		return nil, errors.Wrap(err, "failed to compute stats")
	}
	return stats, nil
}

func (s *LogService) buildEntry(ownerID string, req LogRequest) (*models.LogEntry, error) {
	timestamp := s.now().UTC()
	if strings.TrimSpace(req.Timestamp) != "" {
		parsed, err := ParseOptionalDate(req.Timestamp)
		if err != nil {
			return nil, errors.ValidationError("Invalid timestamp")
		}
		timestamp = *parsed
	}

	entry := &models.LogEntry{
		UserID:    ownerID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Category:  models.Category(req.Category),
		Duration:  req.Duration,
		Timestamp: timestamp,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}
