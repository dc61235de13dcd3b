package application

import (
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/Hannlytics/rams-generator/internal/domain/scoring"
	"go.uber.org/zap"
)

// Services is the wired application layer shared by the CLI, HTTP and MCP
// entry points.
type Services struct {
	Config   domain.Config
	Rules    *rules.Evaluator
	Scorer   *scoring.Calculator
	Advisor  *Advisor
	Validate *ValidateService
	Fix      *FixService
	Export   *ExportService
}

// NewServices wires every service from cfg. llm may be nil when AI is off.
func NewServices(cfg domain.Config, llm domain.LLMClient, logger *zap.Logger, renderers ...domain.DocumentRenderer) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	evaluator := rules.NewEvaluator(rules.Default(), logger.Named("rules"))
	scorer := scoring.New(cfg.Scoring)
	advisor := NewAdvisor(llm, cfg.AI, logger.Named("ai"))
	regs := cfg.EnabledRegulations()

	return &Services{
		Config:   cfg,
		Rules:    evaluator,
		Scorer:   scorer,
		Advisor:  advisor,
		Validate: NewValidateService(evaluator, scorer, advisor, regs, logger.Named("validate")),
		Fix:      NewFixService(evaluator, scorer, regs, logger.Named("fix")),
		Export:   NewExportService(logger.Named("export"), renderers...),
	}
}
