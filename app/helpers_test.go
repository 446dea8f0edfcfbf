package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"worklog/ai"
	"worklog/internal/testkit"
	"worklog/models"
	"worklog/ports"
)

// fakeLLM answers every prompt through reply and remembers the prompts
type fakeLLM struct {
	mu      sync.Mutex
	calls   int32
	prompts []string
	reply   func(ctx context.Context, prompt string) (*ports.LLMResponse, error)
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, prompt string) (*ports.LLMResponse, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(ctx, prompt)
}

func (f *fakeLLM) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

type replyFunc = func(ctx context.Context, prompt string) (*ports.LLMResponse, error)

func replyWith(text string) replyFunc {
	return func(context.Context, string) (*ports.LLMResponse, error) {
		return &ports.LLMResponse{
			Content: text,
			Usage:   &ports.UsageData{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140, Model: "test-model", Provider: "test"},
		}, nil
	}
}

var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

// reportFixture wires a ReportService over an in-memory store
type reportFixture struct {
	kit     *testkit.TestKit
	llm     *fakeLLM
	service *ReportService
}

func newReportFixture(reply replyFunc, now time.Time) *reportFixture {
	kit := testkit.NewTestKit().WithClock(clock(now))
	llm := &fakeLLM{reply: reply}
	generator := NewNarrativeGenerator(llm, ai.NewPromptManager(""), time.Second)
	gate := NewCooldownGate(10, clock(now))
	service := NewReportService(kit.Logs(), kit.Reports(), kit.Users(), generator, gate, nil, 2, clock(now))
	return &reportFixture{kit: kit, llm: llm, service: service}
}

func (f *reportFixture) addLog(owner string, at time.Time, content string) models.LogEntry {
	entry := &models.LogEntry{UserID: owner, Content: content, Category: models.CategoryTechnical, Timestamp: at}
	if err := f.kit.Logs().Create(context.Background(), entry); err != nil {
		panic(err)
	}
	return *entry
}

// fakeCalendar records calls; failWith makes every call fail
type fakeCalendar struct {
	mu       sync.Mutex
	created  []models.Task
	updated  []string
	deleted  []string
	events   []ports.CalendarEvent
	failWith error
	block    chan struct{}
}

func (c *fakeCalendar) wait(ctx context.Context) error {
	if c.block == nil {
		return nil
	}
	select {
	case <-c.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, token string, task models.Task) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return "", c.failWith
	}
	c.created = append(c.created, task)
	return "evt-" + task.Title, nil
}

func (c *fakeCalendar) UpdateEvent(ctx context.Context, token, eventID string, task models.Task) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.updated = append(c.updated, eventID)
	return nil
}

func (c *fakeCalendar) DeleteEvent(ctx context.Context, token, eventID string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.deleted = append(c.deleted, eventID)
	return nil
}

func (c *fakeCalendar) ListEvents(ctx context.Context, token string, from, to time.Time) ([]ports.CalendarEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return nil, c.failWith
	}
	return c.events, nil
}

func (c *fakeCalendar) Status(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failWith
}
