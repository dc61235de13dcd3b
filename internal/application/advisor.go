package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/prompt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultAITimeout = 30 * time.Second

// Advisor is the AI side of the pipeline: validation augmentation, quality
// review and drafting. A nil client disables all three.
type Advisor struct {
	client  domain.LLMClient
	timeout time.Duration
	notices []string
	logger  *zap.Logger
}

// NewAdvisor creates an Advisor. client may be nil.
func NewAdvisor(client domain.LLMClient, cfg domain.AIConfig, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	notices := cfg.FallbackNotices
	if len(notices) == 0 {
		notices = domain.DefaultFallbackNotices
	}
	return &Advisor{client: client, timeout: timeout, notices: notices, logger: logger}
}

// Enabled reports whether a provider is configured.
func (a *Advisor) Enabled() bool { return a.client != nil }

// Augment asks the model for extra suggestions. It never fails: any
// problem yields a degraded result with zero suggestions.
func (a *Advisor) Augment(ctx context.Context, form domain.FormSnapshot) domain.AugmentResult {
	if a.client == nil {
		return domain.AugmentDisabledResult("no AI provider configured")
	}

	start := time.Now()
	content, err := a.complete(ctx, prompt.ValidationSystem, prompt.Validation(form))
	latency := time.Since(start)

	var res domain.AugmentResult
	if err != nil {
		res = domain.AugmentDegradedResult(a.reason(err), a.fallbackNotices())
	} else if sugs, perr := prompt.ParseSuggestions(content); perr != nil {
		res = domain.AugmentDegradedResult(perr.Error(), a.fallbackNotices())
	} else {
		res = domain.AugmentOKResult(sugs)
	}
	res.LatencyMS = latency.Milliseconds()

	a.logger.Info("ai augment",
		zap.String("status", string(res.Status)),
		zap.String("reason", res.Reason),
		zap.Int("suggestions", len(res.Suggestions)),
		zap.Duration("latency", latency))
	return res
}

// Review scores language, tone and completeness. Failures fall back to the
// fixed review scores instead of an error.
func (a *Advisor) Review(ctx context.Context, form domain.FormSnapshot) domain.ReviewResult {
	if a.client == nil {
		res := domain.ReviewCallFallback(a.fallbackNotices())
		res.Status, res.Reason = domain.AugmentDisabled, "no AI provider configured"
		return res
	}

	content, err := a.complete(ctx, prompt.ReviewSystem, prompt.Review(form))
	if err != nil {
		res := domain.ReviewCallFallback(a.fallbackNotices())
		res.Reason = a.reason(err)
		a.logger.Warn("ai review failed", zap.String("reason", res.Reason))
		return res
	}

	res, err := prompt.ParseReview(content)
	if err != nil {
		res = domain.ReviewParseFallback()
		res.Reason = err.Error()
		a.logger.Warn("ai review unparseable", zap.Error(err))
	}
	return res
}

// Draft generates a starting form from a free-text brief. Unlike Augment,
// failures are returned to the caller.
func (a *Advisor) Draft(ctx context.Context, brief string) (*domain.Draft, error) {
	brief = strings.TrimSpace(brief)
	if brief == "" {
		return nil, domain.ErrEmptyPrompt
	}
	if a.client == nil {
		return nil, fmt.Errorf("%w: no provider configured", domain.ErrAIUnavailable)
	}

	content, err := a.complete(ctx, prompt.DraftSystem(), brief)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAIUnavailable, a.reason(err))
	}
	form, err := prompt.ParseDraft(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
	}

	return &domain.Draft{
		ID:          uuid.NewString(),
		Form:        form,
		AIGenerated: true,
		Disclaimer:  domain.DraftDisclaimer,
	}, nil
}

type completion struct {
	content string
	err     error
}

// complete bounds one model call by the configured timeout. The call runs
// in its own goroutine so a client that ignores ctx cannot hold the caller
// past the deadline.
func (a *Advisor) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		content, err := a.client.CompleteWithSystem(ctx, system, user)
		done <- completion{content: content, err: err}
	}()

	select {
	case c := <-done:
		return c.content, c.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (a *Advisor) reason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("AI request timed out after %s", a.timeout)
	case errors.Is(err, context.Canceled):
		return "AI request cancelled"
	default:
		return err.Error()
	}
}

func (a *Advisor) fallbackNotices() []string {
	return append([]string(nil), a.notices...)
}
