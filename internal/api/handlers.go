package api

import (
	"time"

	"sor/internal/adapters/redis"
	"sor/internal/domain/agent"
	"sor/internal/domain/document"
	"sor/internal/domain/project"
	"sor/internal/domain/stage"
	"sor/internal/engine"
	"sor/internal/notify"
	"sor/pkg/logger"
)

// Handlers carries every dependency the REST endpoints need.
type Handlers struct {
	projects     project.Repository
	projectSvc   *project.Service
	agents       agent.Repository
	agentSvc     *agent.Service
	stages       stage.Repository
	documents    document.Repository
	orchestrator *engine.Orchestrator
	reports      *engine.ReportBuilder
	locks        *redis.Client
	notifier     *notify.TelegramNotifier
	runLockTTL   time.Duration
	log          *logger.Logger
}

// HandlersConfig collects the wiring for NewHandlers.
type HandlersConfig struct {
	Projects     project.Repository
	ProjectSvc   *project.Service
	Agents       agent.Repository
	AgentSvc     *agent.Service
	Stages       stage.Repository
	Documents    document.Repository
	Orchestrator *engine.Orchestrator
	Reports      *engine.ReportBuilder
	Locks        *redis.Client
	Notifier     *notify.TelegramNotifier
	RunLockTTL   time.Duration
}

// NewHandlers creates the REST handler set.
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		projects:     cfg.Projects,
		projectSvc:   cfg.ProjectSvc,
		agents:       cfg.Agents,
		agentSvc:     cfg.AgentSvc,
		stages:       cfg.Stages,
		documents:    cfg.Documents,
		orchestrator: cfg.Orchestrator,
		reports:      cfg.Reports,
		locks:        cfg.Locks,
		notifier:     cfg.Notifier,
		runLockTTL:   cfg.RunLockTTL,
		log:          logger.Get().With("component", "api"),
	}
}
