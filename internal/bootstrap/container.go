package bootstrap

import (
	"context"
	"sync"

	"sor/internal/adapters/ai"
	"sor/internal/adapters/config"
	"sor/internal/adapters/errors/noop"
	"sor/internal/adapters/errors/sentry"
	pgclient "sor/internal/adapters/postgres"
	redisclient "sor/internal/adapters/redis"
	"sor/internal/api"
	"sor/internal/api/health"
	"sor/internal/domain/agent"
	"sor/internal/domain/document"
	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/internal/engine"
	"sor/internal/events"
	"sor/internal/metrics"
	"sor/internal/notify"
	pgrepo "sor/internal/repository/postgres"
	"sor/pkg/errors"
	"sor/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure Layer (Data stores)
	PG    *pgclient.Client
	Redis *redisclient.Client

	// Domain Layer
	Repos    *Repositories
	Services *Services

	// Pipeline engine
	Engine *Engine

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Repositories groups all domain repositories
type Repositories struct {
	Project  project.Repository
	Agent    agent.Repository
	Stage    stage.Repository
	Document document.Repository
}

// Services groups all domain services
type Services struct {
	Project *project.Service
	Agent   *agent.Service
}

// Engine groups the pipeline components
type Engine struct {
	AIClient       *ai.Client
	Synthesizer    *engine.Synthesizer
	Orchestrator   *engine.Orchestrator
	Reports        *engine.ReportBuilder
	EventPublisher *events.KafkaPublisher
}

// Application groups application layer components
type Application struct {
	HTTPServer    *api.Server
	HealthHandler *health.Handler
	Notifier      *notify.TelegramNotifier
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Repos:       &Repositories{},
		Services:    &Services{},
		Engine:      &Engine{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitServices()
	c.MustInitEngine()
	c.MustInitApplication()
}

// MustInitConfig loads configuration, logging, metrics, and error tracking
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	c.Log = logger.Get()

	metrics.Init()

	c.ErrorTracker = c.initErrorTracker()
	logger.SetErrorTracker(c.ErrorTracker)
}

func (c *Container) initErrorTracker() errors.Tracker {
	cfg := c.Config.ErrorTracking
	if !cfg.Enabled || cfg.SentryDSN == "" {
		c.Log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		c.Log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	c.Log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// MustInitInfrastructure connects to PostgreSQL and Redis and applies the schema
func (c *Container) MustInitInfrastructure() {
	pg, err := pgclient.NewClient(c.Config.Postgres)
	if err != nil {
		panic("failed to connect to PostgreSQL: " + err.Error())
	}
	if err := pg.Migrate(c.Context); err != nil {
		panic("failed to apply schema: " + err.Error())
	}
	c.PG = pg
	c.Log.Info("✓ PostgreSQL connected")

	rd, err := redisclient.NewClient(c.Config.Redis)
	if err != nil {
		panic("failed to connect to Redis: " + err.Error())
	}
	c.Redis = rd
	c.Log.Info("✓ Redis connected")
}

// MustInitRepositories wires the PostgreSQL repositories
func (c *Container) MustInitRepositories() {
	db := c.PG.DB()
	c.Repos.Project = pgrepo.NewProjectRepository(db)
	c.Repos.Agent = pgrepo.NewAgentRepository(db)
	c.Repos.Stage = pgrepo.NewStageResultRepository(db)
	c.Repos.Document = pgrepo.NewDocumentRepository(db)
}

// MustInitServices wires the domain services
func (c *Container) MustInitServices() {
	c.Services.Agent = agent.NewService(c.Repos.Agent)
	c.Services.Project = project.NewService(c.Repos.Project, c.Repos.Stage)
}

// MustInitEngine wires AI providers, the model client, and the stage pipeline
func (c *Container) MustInitEngine() {
	aiCfg := c.Config.AI
	registry := ai.NewRegistry(ai.ProviderName(aiCfg.DefaultProvider))
	if aiCfg.ClaudeKey != "" {
		registry.Register(ai.NewClaudeProvider(aiCfg.ClaudeKey, aiCfg.RequestTimeout))
	}
	if aiCfg.OpenAIKey != "" {
		registry.Register(ai.NewOpenAIProvider(aiCfg.OpenAIKey, aiCfg.RequestTimeout))
	}
	if aiCfg.ClaudeKey == "" && aiCfg.OpenAIKey == "" {
		panic("no AI provider configured: set CLAUDE_API_KEY or OPENAI_API_KEY")
	}

	limiter := ai.NewTokenBucketLimiter(
		ai.ProviderName(aiCfg.DefaultProvider), aiCfg.ReqPerMinute, aiCfg.Burst)

	pipeCfg := c.Config.Pipeline
	client := ai.NewClient(registry, limiter, pipeCfg.MaxRetries, pipeCfg.RetryBackoffBase)
	c.Engine.AIClient = client

	c.Engine.Synthesizer = engine.NewSynthesizer(
		client, aiCfg.DefaultModel, pipeCfg.MaxTokens, pipeCfg.ProbeTemperature)

	c.Engine.EventPublisher = events.NewKafkaPublisher(c.Config.Kafka)
	var audit engine.AuditPublisher
	if c.Engine.EventPublisher != nil {
		audit = c.Engine.EventPublisher
		c.Log.Infow("✓ Stage event audit stream enabled", "topic", c.Config.Kafka.Topic)
	}

	c.Engine.Orchestrator = engine.NewOrchestrator(
		client,
		c.Repos.Stage,
		c.Engine.Synthesizer,
		audit,
		pipeCfg.StaggerDelay,
		aiCfg.DefaultModel,
		pipeCfg.MaxTokens,
	)
	c.Engine.Reports = engine.NewReportBuilder(client, aiCfg.DefaultModel)
}

// MustInitApplication wires the HTTP server and outbound notifications
func (c *Container) MustInitApplication() {
	notifier, err := notify.NewTelegramNotifier(c.Config.Telegram)
	if err != nil {
		panic("failed to init telegram notifier: " + err.Error())
	}
	if notifier != nil {
		c.Log.Info("✓ Telegram approval notifications enabled")
	}
	c.Application.Notifier = notifier

	c.Application.HealthHandler = health.New(
		c.Log, c.PG.DB(), c.Redis.Client(), c.Config.App.Name, c.Config.App.Version)

	handlers := api.NewHandlers(api.HandlersConfig{
		Projects:     c.Repos.Project,
		ProjectSvc:   c.Services.Project,
		Agents:       c.Repos.Agent,
		AgentSvc:     c.Services.Agent,
		Stages:       c.Repos.Stage,
		Documents:    c.Repos.Document,
		Orchestrator: c.Engine.Orchestrator,
		Reports:      c.Engine.Reports,
		Locks:        c.Redis,
		Notifier:     notifier,
		RunLockTTL:   c.Config.Pipeline.RunLockTTL,
	})

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Port:        c.Config.HTTP.Port,
		ServiceName: c.Config.App.Name,
		Version:     c.Config.App.Version,
	}, handlers, c.Application.HealthHandler, c.Log)
}

// Start seeds the default agent roster and starts the HTTP server
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	if err := c.Services.Agent.SeedDefaults(c.Context, agent.DefaultAgents()); err != nil {
		return errors.Wrap(err, "seed default agents")
	}

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel() // Trigger shutdown on fatal HTTP error
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Engine.EventPublisher,
		c.PG,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}
