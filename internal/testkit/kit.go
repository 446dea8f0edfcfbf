package testkit

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"worklog/internal/errors"
	"worklog/models"
	"worklog/ports"

	"github.com/google/uuid"
)

// TestKit is an in-memory store backing every repository port. It is used
// by tests and by STORAGE_DRIVER=memory for local runs.
type TestKit struct {
	mu      sync.Mutex
	now     func() time.Time
	users   map[string]*models.User
	logs    map[uuid.UUID]models.LogEntry
	tasks   map[uuid.UUID]models.Task
	reports map[uuid.UUID]models.Report
	usage   []models.LLMUsage
}

// NewTestKit creates an empty in-memory store
func NewTestKit() *TestKit {
	return &TestKit{
		now:     func() time.Time { return time.Now().UTC() },
		users:   make(map[string]*models.User),
		logs:    make(map[uuid.UUID]models.LogEntry),
		tasks:   make(map[uuid.UUID]models.Task),
		reports: make(map[uuid.UUID]models.Report),
	}
}

// WithClock overrides the clock used for CreatedAt/UpdatedAt stamps
func (k *TestKit) WithClock(now func() time.Time) *TestKit {
	k.now = now
	return k
}

// Logs returns the log repository over the shared store
func (k *TestKit) Logs() ports.LogRepository { return &memoryLogs{k} }

// Tasks returns the task repository over the shared store
func (k *TestKit) Tasks() ports.TaskRepository { return &memoryTasks{k} }

// Reports returns the report repository over the shared store
func (k *TestKit) Reports() ports.ReportRepository { return &memoryReports{k} }

// Users returns the user repository over the shared store
func (k *TestKit) Users() ports.UserRepository { return &memoryUsers{k} }

// Usage returns the LLM usage repository over the shared store
func (k *TestKit) Usage() ports.LLMUsageRepository { return &memoryUsage{k} }

// SeedUser inserts or replaces a user row
func (k *TestKit) SeedUser(user models.User) {
	k.mu.Lock()
	defer k.mu.Unlock()
	u := user
	k.users[u.ID] = &u
}

// ReportCount returns how many reports an owner has
func (k *TestKit) ReportCount(ownerID string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for _, r := range k.reports {
		if r.UserID == ownerID {
			n++
		}
	}
	return n
}

// UsageRecords returns a copy of the recorded LLM usage rows
func (k *TestKit) UsageRecords() []models.LLMUsage {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]models.LLMUsage(nil), k.usage...)
}

type memoryLogs struct{ k *TestKit }

func (m *memoryLogs) Create(ctx context.Context, entry *models.LogEntry) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = m.k.now()
	m.k.logs[entry.ID] = *entry
	return nil
}

func (m *memoryLogs) GetByID(ctx context.Context, id uuid.UUID) (*models.LogEntry, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	entry, ok := m.k.logs[id]
	if !ok {
		return nil, errors.NotFound("Log")
	}
	return &entry, nil
}

func (m *memoryLogs) Update(ctx context.Context, entry *models.LogEntry) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	existing, ok := m.k.logs[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return errors.NotFound("Log")
	}
	entry.CreatedAt = existing.CreatedAt
	m.k.logs[entry.ID] = *entry
	return nil
}

func (m *memoryLogs) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	existing, ok := m.k.logs[id]
	if !ok || existing.UserID != ownerID {
		return errors.NotFound("Log")
	}
	delete(m.k.logs, id)
	return nil
}

func (m *memoryLogs) ListInRange(ctx context.Context, ownerID string, start, end time.Time) ([]models.LogEntry, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	out := []models.LogEntry{}
	for _, e := range m.k.logs {
		if e.UserID != ownerID || e.Timestamp.Before(start) || e.Timestamp.After(end) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *memoryLogs) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.LogEntry, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	out := []models.LogEntry{}
	for _, e := range m.k.logs {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLogs) Count(ctx context.Context, ownerID string, category *models.Category) (int, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	n := 0
	for _, e := range m.k.logs {
		if e.UserID != ownerID {
			continue
		}
		if category != nil && e.Category != *category {
			continue
		}
		n++
	}
	return n, nil
}

type memoryTasks struct{ k *TestKit }

func (m *memoryTasks) Create(ctx context.Context, task *models.Task) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	task.ID = uuid.New()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = m.k.now()
	}
	m.k.tasks[task.ID] = *task
	return nil
}

func (m *memoryTasks) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	task, ok := m.k.tasks[id]
	if !ok {
		return nil, errors.NotFound("Task")
	}
	return &task, nil
}

func (m *memoryTasks) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	out := []models.Task{}
	for _, t := range m.k.tasks {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryTasks) Update(ctx context.Context, task *models.Task) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	existing, ok := m.k.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return errors.NotFound("Task")
	}
	task.CalendarEventID = existing.CalendarEventID
	m.k.tasks[task.ID] = *task
	return nil
}

func (m *memoryTasks) Complete(ctx context.Context, task *models.Task) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	existing, ok := m.k.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return errors.NotFound("Task")
	}
	if existing.IsCompleted {
		return errors.ValidationError("Task is already completed")
	}
	task.CalendarEventID = existing.CalendarEventID
	m.k.tasks[task.ID] = *task
	return nil
}

func (m *memoryTasks) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	existing, ok := m.k.tasks[id]
	if !ok || existing.UserID != ownerID {
		return errors.NotFound("Task")
	}
	delete(m.k.tasks, id)
	return nil
}

func (m *memoryTasks) SetCalendarEventID(ctx context.Context, ownerID string, id uuid.UUID, eventID string) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	existing, ok := m.k.tasks[id]
	if !ok || existing.UserID != ownerID {
		return errors.NotFound("Task")
	}
	existing.CalendarEventID = eventID
	m.k.tasks[id] = existing
	return nil
}

type memoryReports struct{ k *TestKit }

func (m *memoryReports) CommitGeneration(ctx context.Context, report *models.Report, observedLast *time.Time) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()

	user, ok := m.k.users[report.UserID]
	if !ok {
		return errors.NotFound("User")
	}
	if !sameInstant(user.LastReportGeneratedAt, observedLast) {
		return errors.RateLimited("Another report was generated for this period")
	}

	report.ID = uuid.New()
	m.k.reports[report.ID] = *report
	generated := report.GeneratedAt
	user.LastReportGeneratedAt = &generated
	user.UpdatedAt = m.k.now()
	return nil
}

func (m *memoryReports) List(ctx context.Context, ownerID string, limit int) ([]models.Report, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	out := []models.Report{}
	for _, r := range m.k.reports {
		if r.UserID == ownerID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GeneratedAt.Equal(out[j].GeneratedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryReports) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	r, ok := m.k.reports[id]
	if !ok {
		return nil, errors.NotFound("Report")
	}
	return &r, nil
}

type memoryUsers struct{ k *TestKit }

func (m *memoryUsers) EnsureUser(ctx context.Context, identity models.Identity) (*models.User, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	if u, ok := m.k.users[identity.UserID]; ok {
		copied := *u
		return &copied, nil
	}
	now := m.k.now()
	u := &models.User{
		ID:        identity.UserID,
		Email:     identity.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.k.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	u, ok := m.k.users[userID]
	if !ok {
		return nil, errors.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) SetNameOnce(ctx context.Context, userID, name string) (*models.User, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	u, ok := m.k.users[userID]
	if !ok {
		return nil, errors.NotFound("User")
	}
	if strings.TrimSpace(u.Name) != "" {
		return nil, errors.ValidationError("Name has already been set")
	}
	u.Name = name
	u.UpdatedAt = m.k.now()
	copied := *u
	return &copied, nil
}

type memoryUsage struct{ k *TestKit }

func (m *memoryUsage) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	usage.ID = uuid.New()
	m.k.usage = append(m.k.usage, *usage)
	return nil
}

func (m *memoryUsage) GetUserUsageSummary(ctx context.Context, userID string, start, end time.Time) (*models.UserUsageSummary, error) {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	summary := &models.UserUsageSummary{
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
		ByModel:     make(map[string]models.ModelUsage),
	}
	for _, u := range m.k.usage {
		if u.UserID != userID || u.CreatedAt.Before(start) || u.CreatedAt.After(end) {
			continue
		}
		summary.RequestCount++
		summary.TotalTokens += u.TotalTokens
		summary.TotalPromptTokens += u.PromptTokens
		summary.TotalCompletionTokens += u.CompletionTokens
		mu := summary.ByModel[u.Model]
		mu.Model = u.Model
		mu.Provider = u.Provider
		mu.TotalTokens += u.TotalTokens
		mu.RequestCount++
		summary.ByModel[u.Model] = mu
	}
	return summary, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
