package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"worklog/adapters/calendar"
	"worklog/adapters/llm"
	"worklog/adapters/postgres"
	"worklog/ai"
	"worklog/app"
	"worklog/internal/api"
	"worklog/internal/config"
	"worklog/internal/crypto"
	"worklog/internal/ops"
	"worklog/internal/testkit"
	"worklog/internal/usage"
	"worklog/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB  *sqlx.DB
	Now func() time.Time

	// Repositories (data access layer)
	UserRepo   ports.UserRepository
	LogRepo    ports.LogRepository
	TaskRepo   ports.TaskRepository
	ReportRepo ports.ReportRepository
	UsageRepo  ports.LLMUsageRepository

	// Collaborators
	Cipher    *crypto.FieldCipher
	LLMClient ports.LLMClient
	Calendar  ports.Calendar
	Usage     *usage.Service
	Syncer    *app.CalendarSyncer
	SyncHub   *api.SSEHub

	// Services
	Users       *app.UserService
	Logs        *app.LogService
	Tasks       *app.TaskService
	Reports     *app.ReportService
	CalendarSvc *app.CalendarService

	stopForward context.CancelFunc
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Now:    time.Now,
	}, nil
}

// InitWithDatabase wires everything over a PostgreSQL connection
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.UserRepo = postgres.NewUserRepository(db)
	c.LogRepo = postgres.NewLogRepository(db)
	c.TaskRepo = postgres.NewTaskRepository(db)
	c.ReportRepo = postgres.NewReportRepository(db)
	c.UsageRepo = postgres.NewLLMUsageRepository(db)

	if err := c.initServices(); err != nil {
		return err
	}

	log.Printf("Container initialized successfully with database connection")
	return nil
}

// InitInMemory wires everything over the in-memory store. Data is lost on
// exit; it exists for local runs without PostgreSQL.
func (c *Container) InitInMemory() error {
	kit := testkit.NewTestKit().WithClock(c.Now)

	c.UserRepo = kit.Users()
	c.LogRepo = kit.Logs()
	c.TaskRepo = kit.Tasks()
	c.ReportRepo = kit.Reports()
	c.UsageRepo = kit.Usage()

	if err := c.initServices(); err != nil {
		return err
	}

	log.Printf("Container initialized with in-memory storage")
	return nil
}

func (c *Container) initServices() error {
	cfg := c.Config

	cipher, err := crypto.NewFieldCipher(cfg.Security.FieldEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize field cipher: %w", err)
	}
	c.Cipher = cipher
	if !cipher.Enabled() {
		log.Printf("Warning: FIELD_ENCRYPTION_KEY not set, log text is stored in plaintext")
	}
	logs := crypto.NewLogRepository(c.LogRepo, cipher)

	if err := c.initAIComponents(); err != nil {
		return fmt.Errorf("failed to initialize AI components: %w", err)
	}

	c.Calendar = calendar.NewGoogleCalendar(cfg.Calendar.CalendarID)
	c.Syncer = app.NewCalendarSyncer(c.Calendar, c.TaskRepo, cfg.Calendar.SyncTimeout, 0)
	c.SyncHub = api.NewSSEHub()

	forwardCtx, cancel := context.WithCancel(context.Background())
	c.stopForward = cancel
	go api.ForwardSyncResults(forwardCtx, c.Syncer.Results(), c.SyncHub)

	c.Usage = usage.NewService(c.UsageRepo)

	gate := app.NewCooldownGate(cfg.Report.CooldownDays, c.Now)
	generator := app.NewNarrativeGenerator(c.LLMClient, ai.NewPromptManager(cfg.AI.PromptsDir), cfg.AI.Timeout)

	c.Users = app.NewUserService(c.UserRepo, gate)
	c.Logs = app.NewLogService(logs, c.Now)
	c.Tasks = app.NewTaskService(c.TaskRepo, logs, c.Syncer, c.Now)
	c.Reports = app.NewReportService(logs, c.ReportRepo, c.UserRepo, generator, gate, c.Usage, cfg.Report.MaxConcurrent, c.Now)
	c.CalendarSvc = app.NewCalendarService(c.Calendar, c.Now)
	return nil
}

// initAIComponents builds the LLM client. A missing key is logged, not
// fatal: report generation fails until one is configured.
func (c *Container) initAIComponents() error {
	aiCfg := c.Config.AI
	if aiCfg.APIKey == "" {
		log.Printf("Warning: no API key configured for LLM provider %s, report generation will fail", aiCfg.Provider)
	}

	client, err := llm.NewClient(llm.Config{
		Provider:    aiCfg.Provider,
		APIKey:      aiCfg.APIKey,
		Model:       aiCfg.Model,
		BaseURL:     aiCfg.BaseURL,
		MaxTokens:   aiCfg.MaxTokens,
		Temperature: aiCfg.Temperature,
		Timeout:     aiCfg.Timeout,
	})
	if err != nil {
		return err
	}

	c.LLMClient = llm.NewRetryingClient(client, aiCfg.MaxRetries, aiCfg.RetryBaseDelay)
	log.Printf("LLM client initialized: provider=%s model=%s", aiCfg.Provider, aiCfg.Model)
	return nil
}

// APIServer builds the public JSON API
func (c *Container) APIServer() *api.Server {
	return api.NewServer(api.Services{
		Identity: api.NewHeaderResolver(c.Config.Security.AuthProxySecret),
		Users:    c.Users,
		Logs:     c.Logs,
		Tasks:    c.Tasks,
		Reports:  c.Reports,
		Calendar: c.CalendarSvc,
		Usage:    c.Usage,
		SyncHub:  c.SyncHub,
		Now:      c.Now,
	})
}

// OpsChecks returns the readiness probes for the ops router
func (c *Container) OpsChecks() []ops.Check {
	if c.DB == nil {
		return nil
	}
	return []ops.Check{{Name: "database", Pinger: c.DB}}
}

// Shutdown waits for background work and closes the database
func (c *Container) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		if c.Syncer != nil {
			c.Syncer.Wait()
		}
		if c.Usage != nil {
			c.Usage.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("Shutdown deadline reached before background jobs finished")
	}

	if c.stopForward != nil {
		c.stopForward()
	}
	if c.SyncHub != nil {
		c.SyncHub.Close()
	}

	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
