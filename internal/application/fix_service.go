package application

import (
	"fmt"
	"slices"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/Hannlytics/rams-generator/internal/domain/scoring"
	"go.uber.org/zap"
)

// FixService applies rule auto-fixes to a form:
// evaluate → apply fixes in rule order → re-evaluate → report.
type FixService struct {
	evaluator   *rules.Evaluator
	scorer      *scoring.Calculator
	regulations []domain.Regulation
	logger      *zap.Logger
}

func NewFixService(evaluator *rules.Evaluator, scorer *scoring.Calculator, regulations []domain.Regulation, logger *zap.Logger) *FixService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixService{evaluator: evaluator, scorer: scorer, regulations: regulations, logger: logger}
}

// FixRequest selects one fix. RuleID picks a rule's own fix. Field with
// Content writes Content verbatim, which is how AI suggestions are applied.
// Field alone picks the first violated rule targeting that field.
type FixRequest struct {
	Form    domain.FormSnapshot `json:"form"`
	RuleID  string              `json:"ruleId,omitempty"`
	Field   string              `json:"field,omitempty"`
	Content *domain.FixContent  `json:"content,omitempty"`
}

// ApplySuggestion applies one auto-fix and returns the updated form.
func (s *FixService) ApplySuggestion(req FixRequest) (domain.FormSnapshot, domain.AppliedFix, error) {
	form := req.Form
	if err := form.Validate(); err != nil {
		return form, domain.AppliedFix{}, err
	}

	var (
		field   string
		content domain.FixContent
		applied domain.AppliedFix
	)
	switch {
	case req.RuleID != "":
		sug, violated, err := s.evaluator.Suggest(req.RuleID, form)
		if err != nil {
			return form, applied, err
		}
		if !violated || !sug.HasFix() {
			return form, applied, fmt.Errorf("%w: %s is satisfied or has no fix", domain.ErrNoFixAvailable, req.RuleID)
		}
		field, content = sug.Field, *sug.AutoFixContent
		applied = domain.AppliedFix{RuleID: sug.ID, Field: field, Description: sug.Message}
	case req.Field != "" && req.Content != nil:
		field, content = req.Field, *req.Content
		applied = domain.AppliedFix{Field: field, Description: "Applied suggested content"}
	case req.Field != "":
		sug, ok := s.firstFixFor(form, req.Field)
		if !ok {
			return form, applied, fmt.Errorf("%w: no violated rule targets %s", domain.ErrNoFixAvailable, req.Field)
		}
		field, content = sug.Field, *sug.AutoFixContent
		applied = domain.AppliedFix{RuleID: sug.ID, Field: field, Description: sug.Message}
	default:
		return form, applied, fmt.Errorf("%w: ruleId or field is required", domain.ErrNoFixAvailable)
	}

	if err := domain.ApplyFix(&form, field, content); err != nil {
		return req.Form, domain.AppliedFix{}, err
	}
	return form, applied, nil
}

func (s *FixService) firstFixFor(form domain.FormSnapshot, field string) (domain.Suggestion, bool) {
	for _, sug := range s.evaluator.Evaluate(form, s.regulations) {
		if sug.Field == field && sug.HasFix() {
			return sug, true
		}
	}
	return domain.Suggestion{}, false
}

// PlanFixes applies every available rule fix, or only opts.RuleIDs. Findings
// without a fix become instructions. In dry-run mode the form is left alone
// and the plan lists what would be applied.
func (s *FixService) PlanFixes(form domain.FormSnapshot, opts domain.FixOptions) (*domain.FixPlan, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	regs := opts.Regulations
	if len(regs) == 0 {
		regs = s.regulations
	}
	for _, id := range opts.RuleIDs {
		if _, ok := s.evaluator.Registry().Get(id); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRule, id)
		}
	}

	// 1. Score the form as submitted
	before := s.evaluator.Evaluate(form, regs)
	plan := &domain.FixPlan{
		Applied:      []domain.AppliedFix{},
		Instructions: []domain.Instruction{},
		ScoreBefore:  s.scorer.Score(form, before),
	}

	// 2. Apply fixes in rule order. Each fix is recomputed against the
	// working copy so appended sections accumulate.
	working := form
	for _, sug := range before {
		if len(opts.RuleIDs) > 0 && !slices.Contains(opts.RuleIDs, sug.ID) {
			continue
		}
		if !sug.HasFix() {
			plan.Instructions = append(plan.Instructions, instructionFor(sug))
			continue
		}

		current, violated, err := s.evaluator.Suggest(sug.ID, working)
		if err != nil {
			s.logger.Warn("fix skipped", zap.String("rule", sug.ID), zap.Error(err))
			plan.Instructions = append(plan.Instructions, instructionFor(sug))
			continue
		}
		if !violated {
			continue
		}
		if err := domain.ApplyFix(&working, current.Field, *current.AutoFixContent); err != nil {
			return nil, fmt.Errorf("applying %s: %w", sug.ID, err)
		}
		plan.Applied = append(plan.Applied, domain.AppliedFix{
			RuleID: sug.ID, Field: sug.Field, Description: sug.Message,
		})
	}

	// 3. Re-score the fixed form
	plan.ScoreAfter = s.scorer.Score(working, s.evaluator.Evaluate(working, regs))
	if !opts.DryRun {
		plan.Form = &working
	}

	s.logger.Debug("fix plan",
		zap.Int("applied", len(plan.Applied)),
		zap.Int("instructions", len(plan.Instructions)),
		zap.Bool("dry_run", opts.DryRun))
	return plan, nil
}

func instructionFor(s domain.Suggestion) domain.Instruction {
	return domain.Instruction{
		RuleID:     s.ID,
		Field:      s.Field,
		Message:    s.Message,
		Priority:   s.Severity,
		Regulation: s.Regulation,
	}
}
