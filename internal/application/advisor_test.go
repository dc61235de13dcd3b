package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

type fakeLLM struct {
	reply  string
	err    error
	block  bool
	calls  atomic.Int32
	system atomic.Value
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, system, _ string) (string, error) {
	f.calls.Add(1)
	f.system.Store(system)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func newAdvisor(llm domain.LLMClient, timeout time.Duration) *Advisor {
	cfg := domain.DefaultConfig().AI
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return NewAdvisor(llm, cfg, nil)
}

func TestAugment_DisabledWithoutClient(t *testing.T) {
	res := newAdvisor(nil, 0).Augment(context.Background(), domain.FormSnapshot{})
	assert.Equal(t, domain.AugmentDisabled, res.Status)
	assert.Empty(t, res.Suggestions)
	assert.NotEmpty(t, res.Reason)
}

func TestAugment_OK(t *testing.T) {
	llm := &fakeLLM{reply: `[{"field":"controls","severity":"critical","message":"No edge protection","suggestion":"Fit guard rails"}]`}

	res := newAdvisor(llm, 0).Augment(context.Background(), domain.FormSnapshot{})
	require.Equal(t, domain.AugmentOK, res.Status)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, domain.SourceAI, res.Suggestions[0].Source)
	assert.Equal(t, domain.SeverityCritical, res.Suggestions[0].Severity)
	assert.Empty(t, res.Notices)
	assert.Equal(t, int32(1), llm.calls.Load())
	assert.Contains(t, llm.system.Load(), "health and safety expert")
}

func TestAugment_DegradesOnCallError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("openai: status 503")}

	res := newAdvisor(llm, 0).Augment(context.Background(), domain.FormSnapshot{})
	assert.Equal(t, domain.AugmentDegraded, res.Status)
	assert.Empty(t, res.Suggestions)
	assert.Contains(t, res.Reason, "503")
	assert.Equal(t, domain.DefaultFallbackNotices, res.Notices)
}

func TestAugment_DegradesOnUnparseableReply(t *testing.T) {
	llm := &fakeLLM{reply: "I'm sorry, I can't help with that."}

	res := newAdvisor(llm, 0).Augment(context.Background(), domain.FormSnapshot{})
	assert.Equal(t, domain.AugmentDegraded, res.Status)
	assert.Empty(t, res.Suggestions)
	assert.Contains(t, res.Reason, "unparseable")
}

func TestAugment_TimeoutDegradesWithoutLeaking(t *testing.T) {
	defer goleak.VerifyNone(t)

	llm := &fakeLLM{block: true}
	start := time.Now()
	res := newAdvisor(llm, 20*time.Millisecond).Augment(context.Background(), domain.FormSnapshot{})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, domain.AugmentDegraded, res.Status)
	assert.Contains(t, res.Reason, "timed out")
	assert.Empty(t, res.Suggestions)
}

func TestAugment_CallerCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newAdvisor(&fakeLLM{block: true}, time.Minute).Augment(ctx, domain.FormSnapshot{})
	assert.Equal(t, domain.AugmentDegraded, res.Status)
	assert.Equal(t, "AI request cancelled", res.Reason)
}

func TestAugment_CustomNotices(t *testing.T) {
	cfg := domain.DefaultConfig().AI
	cfg.FallbackNotices = []string{"Check manually."}

	res := NewAdvisor(&fakeLLM{err: errors.New("boom")}, cfg, nil).Augment(context.Background(), domain.FormSnapshot{})
	assert.Equal(t, []string{"Check manually."}, res.Notices)
}

func TestReview(t *testing.T) {
	tests := []struct {
		name   string
		llm    domain.LLMClient
		scores [3]int
		status domain.AugmentStatus
	}{
		{"parsed", &fakeLLM{reply: `{"languageScore":90,"toneScore":85,"completenessScore":80,"suggestions":["Add dates"]}`}, [3]int{90, 85, 80}, domain.AugmentOK},
		{"unparseable", &fakeLLM{reply: "Looks good!"}, [3]int{70, 70, 60}, domain.AugmentDegraded},
		{"call failure", &fakeLLM{err: errors.New("connection refused")}, [3]int{75, 75, 65}, domain.AugmentDegraded},
		{"disabled", nil, [3]int{75, 75, 65}, domain.AugmentDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newAdvisor(tt.llm, 0).Review(context.Background(), domain.FormSnapshot{})
			assert.Equal(t, tt.scores, [3]int{res.LanguageScore, res.ToneScore, res.CompletenessScore})
			assert.Equal(t, tt.status, res.Status)
			assert.NotEmpty(t, res.Suggestions)
			assert.LessOrEqual(t, len(res.Suggestions), domain.MaxReviewSuggestions)
		})
	}
}

func TestDraft(t *testing.T) {
	llm := &fakeLLM{reply: `{"projectName":"Loft conversion","trade":"Carpenter","selectedHazards":["Working at Height"]}`}

	d, err := newAdvisor(llm, 0).Draft(context.Background(), "  Loft conversion in a terraced house  ")
	require.NoError(t, err)
	_, err = uuid.Parse(d.ID)
	assert.NoError(t, err)
	assert.True(t, d.AIGenerated)
	assert.Equal(t, domain.DraftDisclaimer, d.Disclaimer)
	assert.Equal(t, "Loft conversion", d.Form.ProjectName)
	assert.Equal(t, []domain.Hazard{domain.HazardWorkingAtHeight}, d.Form.SelectedHazards)
}

func TestDraft_Errors(t *testing.T) {
	_, err := newAdvisor(&fakeLLM{}, 0).Draft(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)

	_, err = newAdvisor(nil, 0).Draft(context.Background(), "roof")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)

	_, err = newAdvisor(&fakeLLM{err: errors.New("quota exceeded")}, 0).Draft(context.Background(), "roof")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = newAdvisor(&fakeLLM{reply: "no"}, 0).Draft(context.Background(), "roof")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}
