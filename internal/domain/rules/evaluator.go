package rules

import (
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"go.uber.org/zap"
)

// Evaluator runs a registry against form snapshots. It has no state beyond
// its registry and logger, so one value can serve concurrent callers.
type Evaluator struct {
	registry *Registry
	logger   *zap.Logger
}

// NewEvaluator creates an Evaluator. A nil registry means the canonical
// one; a nil logger discards output.
func NewEvaluator(registry *Registry, logger *zap.Logger) *Evaluator {
	if registry == nil {
		registry = Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{registry: registry, logger: logger}
}

// Evaluate runs the canonical rules for the enabled regulations.
func Evaluate(form domain.FormSnapshot, enabled []domain.Regulation) []domain.Suggestion {
	return NewEvaluator(nil, nil).Evaluate(form, enabled)
}

// Registry returns the rules this evaluator runs.
func (e *Evaluator) Registry() *Registry { return e.registry }

// Evaluate returns one suggestion per violated rule, in regulation order
// then declaration order. A rule that panics is logged and skipped.
func (e *Evaluator) Evaluate(form domain.FormSnapshot, enabled []domain.Regulation) []domain.Suggestion {
	return e.EvaluateStep(form, enabled, 0)
}

// EvaluateStep is Evaluate restricted to rules whose target field lives on
// the given form step. Step 0 means every step.
func (e *Evaluator) EvaluateStep(form domain.FormSnapshot, enabled []domain.Regulation, step domain.FormStep) []domain.Suggestion {
	suggestions := []domain.Suggestion{}
	for _, r := range e.registry.Enabled(enabled) {
		if step != 0 && !onStep(r, step) {
			continue
		}
		s, violated, err := e.run(r, form)
		if err != nil {
			e.logger.Warn("rule skipped",
				zap.String("rule", r.ID),
				zap.String("regulation", string(r.Regulation)),
				zap.Error(err))
			continue
		}
		if violated {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

// Check runs a single rule's predicate, isolating panics.
func (e *Evaluator) Check(id string, form domain.FormSnapshot) (bool, error) {
	_, violated, err := e.Suggest(id, form)
	if err != nil {
		return false, err
	}
	return !violated, nil
}

// Suggest runs a single rule and returns its suggestion, with fix content
// computed against form, when the rule is violated.
func (e *Evaluator) Suggest(id string, form domain.FormSnapshot) (domain.Suggestion, bool, error) {
	r, ok := e.registry.Get(id)
	if !ok {
		return domain.Suggestion{}, false, fmt.Errorf("%w: %s", domain.ErrUnknownRule, id)
	}
	return e.run(r, form)
}

func onStep(r Rule, step domain.FormStep) bool {
	info, ok := domain.LookupField(r.Field)
	return ok && info.Step == step
}

// run evaluates one rule. Panics in the predicate or the fix generator are
// converted to an error so the caller can skip just this rule.
func (e *Evaluator) run(r Rule, form domain.FormSnapshot) (s domain.Suggestion, violated bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			s, violated, err = domain.Suggestion{}, false, fmt.Errorf("rule %s panicked: %v", r.ID, p)
		}
	}()

	if r.Check(form) {
		return domain.Suggestion{}, false, nil
	}

	s = domain.Suggestion{
		ID:         r.ID,
		Field:      r.Field,
		Severity:   r.Severity,
		Regulation: r.Regulation,
		Message:    r.Message,
		Suggestion: r.Suggestion,
		Source:     domain.SourceRule,
	}
	if s.Suggestion == "" {
		s.Suggestion = r.Regulation.Title() + " requirement"
	}
	if r.Fix != nil {
		fix := r.Fix(form)
		s.AutoFixContent = &fix
	}
	return s, true, nil
}
