package application

import (
	"context"
	"strings"
	"time"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/Hannlytics/rams-generator/internal/domain/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const phaseThreshold = 5

// ValidateService runs the rule table and the AI augmenter over a form and
// folds both into one scored report.
type ValidateService struct {
	evaluator   *rules.Evaluator
	scorer      *scoring.Calculator
	augmenter   domain.Augmenter
	regulations []domain.Regulation
	logger      *zap.Logger
	now         func() time.Time
}

// NewValidateService creates a ValidateService. augmenter may be nil, in
// which case AI requests report a disabled status.
func NewValidateService(
	evaluator *rules.Evaluator,
	scorer *scoring.Calculator,
	augmenter domain.Augmenter,
	regulations []domain.Regulation,
	logger *zap.Logger,
) *ValidateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidateService{
		evaluator: evaluator, scorer: scorer, augmenter: augmenter,
		regulations: regulations, logger: logger, now: time.Now,
	}
}

// Validate evaluates the form. The only error is a malformed form; AI
// problems are reported in the report's AI status.
func (s *ValidateService) Validate(ctx context.Context, req domain.ValidateRequest) (*domain.ValidationReport, error) {
	// 1. Reject malformed input
	if err := req.Form.Validate(); err != nil {
		return nil, err
	}
	regs := req.Regulations
	if len(regs) == 0 {
		regs = s.regulations
	}

	// 2. Run rules and AI concurrently
	var ruleSugs []domain.Suggestion
	ai := domain.AugmentDisabledResult("AI validation not requested")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ruleSugs = s.evaluator.EvaluateStep(req.Form, regs, req.Step)
		return nil
	})
	if req.UseAI {
		if s.augmenter == nil {
			ai = domain.AugmentDisabledResult("no AI provider configured")
		} else {
			g.Go(func() error {
				ai = s.augmenter.Augment(gctx, req.Form)
				return nil
			})
		}
	}
	_ = g.Wait()

	// 3. Merge and score
	merged := MergeSuggestions(ruleSugs, onStep(ai.Suggestions, req.Step))
	score := s.scorer.Score(req.Form, merged)
	errs, warnings := domain.CountFindings(merged)

	report := &domain.ValidationReport{
		Suggestions:     merged,
		ComplianceScore: score,
		Grade:           domain.GradeFor(score),
		Band:            domain.BandFor(score, merged),
		IsValid:         errs == 0,
		ErrorCount:      errs,
		WarningCount:    warnings,
		Summary:         domain.SummaryFor(errs, warnings),
		Recommendations: recommendations(req.Form, merged),
		AI:              ai,
		Metadata: domain.ReportMetadata{
			ValidationTimestamp: s.now().UTC(),
			RegulationsChecked:  regulationTitles(regs),
			AIPowered:           ai.Status == domain.AugmentOK,
			Step:                req.Step,
		},
	}

	s.logger.Debug("form validated",
		zap.Int("score", score),
		zap.Int("suggestions", len(merged)),
		zap.String("ai_status", string(ai.Status)))
	return report, nil
}

// MergeSuggestions appends ai after rule, dropping any AI suggestion whose
// field and message repeat one already present.
func MergeSuggestions(rule, ai []domain.Suggestion) []domain.Suggestion {
	merged := make([]domain.Suggestion, 0, len(rule)+len(ai))
	seen := make(map[string]bool, len(rule)+len(ai))
	for _, list := range [][]domain.Suggestion{rule, ai} {
		for _, s := range list {
			key := s.Field + "\x00" + strings.ToLower(strings.TrimSpace(s.Message))
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, s)
		}
	}
	return merged
}

// onStep drops AI suggestions aimed at a known field on another step.
// Suggestions on fields the model invented are kept.
func onStep(sugs []domain.Suggestion, step domain.FormStep) []domain.Suggestion {
	if step == 0 {
		return sugs
	}
	var out []domain.Suggestion
	for _, s := range sugs {
		if info, ok := domain.LookupField(s.Field); ok && info.Step != step {
			continue
		}
		out = append(out, s)
	}
	return out
}

func recommendations(form domain.FormSnapshot, sugs []domain.Suggestion) []string {
	recs := []string{}
	if len(sugs) > phaseThreshold {
		recs = append(recs, "Consider breaking work into smaller, more manageable phases")
	}
	if strings.TrimSpace(form.ReviewedBy) == "" {
		recs = append(recs, "Have a supervisor review this RAMS before work commences")
	}
	return recs
}

func regulationTitles(regs []domain.Regulation) []string {
	if len(regs) == 0 {
		regs = domain.RegulationOrder
	}
	out := make([]string, 0, len(regs))
	for _, r := range domain.RegulationOrder {
		for _, want := range regs {
			if r == want {
				out = append(out, r.Title())
				break
			}
		}
	}
	return out
}
