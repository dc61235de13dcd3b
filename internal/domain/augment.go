package domain

// AugmentStatus tells whether the AI contribution to a report is real.
type AugmentStatus string

const (
	AugmentOK       AugmentStatus = "ok"
	AugmentDegraded AugmentStatus = "degraded"
	AugmentDisabled AugmentStatus = "disabled"
)

// AugmentResult is what the AI augmenter hands back. It never carries an
// error: failures become a degraded result with a reason.
type AugmentResult struct {
	Status      AugmentStatus `json:"status"`
	Suggestions []Suggestion  `json:"-"`
	Reason      string        `json:"reason,omitempty"`
	Notices     []string      `json:"notices,omitempty"`
	LatencyMS   int64         `json:"latencyMs,omitempty"`
}

func AugmentOKResult(suggestions []Suggestion) AugmentResult {
	return AugmentResult{Status: AugmentOK, Suggestions: suggestions}
}

func AugmentDegradedResult(reason string, notices []string) AugmentResult {
	return AugmentResult{Status: AugmentDegraded, Reason: reason, Notices: notices}
}

func AugmentDisabledResult(reason string) AugmentResult {
	return AugmentResult{Status: AugmentDisabled, Reason: reason}
}

// ReviewResult is the AI quality review of a RAMS: three 0-100 scores and
// at most MaxReviewSuggestions free-text improvement suggestions.
type ReviewResult struct {
	LanguageScore     int           `json:"languageScore"`
	ToneScore         int           `json:"toneScore"`
	CompletenessScore int           `json:"completenessScore"`
	Suggestions       []string      `json:"suggestions"`
	Status            AugmentStatus `json:"status"`
	Reason            string        `json:"reason,omitempty"`
}

const MaxReviewSuggestions = 5

// Fixed review scores used when the AI reply cannot be parsed.
func ReviewParseFallback() ReviewResult {
	return ReviewResult{
		LanguageScore:     70,
		ToneScore:         70,
		CompletenessScore: 60,
		Suggestions:       []string{"Unable to process full validation. Please ensure all fields are complete."},
		Status:            AugmentDegraded,
	}
}

// Fixed review scores used when the AI call itself fails.
func ReviewCallFallback(notices []string) ReviewResult {
	return ReviewResult{
		LanguageScore:     75,
		ToneScore:         75,
		CompletenessScore: 65,
		Suggestions:       append([]string(nil), notices...),
		Status:            AugmentDegraded,
	}
}

// Draft is an AI-generated starting point for a RAMS.
type Draft struct {
	ID          string       `json:"id"`
	Form        FormSnapshot `json:"form"`
	AIGenerated bool         `json:"aiGenerated"`
	Disclaimer  string       `json:"disclaimer"`
}

const DraftDisclaimer = "This RAMS was AI-generated and must be reviewed by a competent person before use"
