package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

// ErrUnparseable means the model reply held nothing the parser recognizes.
var ErrUnparseable = errors.New("unparseable model response")

type rawSuggestion struct {
	Field          string             `json:"field"`
	Severity       string             `json:"severity"`
	Message        string             `json:"message"`
	Suggestion     string             `json:"suggestion"`
	AutoFixContent *domain.FixContent `json:"autoFixContent"`
}

// ParseSuggestions accepts, in order: a JSON array of suggestions, an object
// with a "suggestions" array, either of those embedded in fenced or prose
// text, and finally "field: / severity: / message: / suggestion:" lines.
// Entries without a field or message are dropped and unknown severities
// become medium.
func ParseSuggestions(content string) ([]domain.Suggestion, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrUnparseable)
	}

	if raw, ok := decodeSuggestions(content); ok {
		return convert(raw), nil
	}
	if embedded := ExtractJSON(content); embedded != "" {
		if raw, ok := decodeSuggestions(embedded); ok {
			return convert(raw), nil
		}
	}
	if raw := parseLines(content); len(raw) > 0 {
		return convert(raw), nil
	}
	return nil, fmt.Errorf("%w: no suggestions found in %d-byte reply", ErrUnparseable, len(content))
}

func decodeSuggestions(s string) ([]rawSuggestion, bool) {
	var list []rawSuggestion
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return list, true
	}
	var wrapped struct {
		Suggestions *[]rawSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(s), &wrapped); err == nil && wrapped.Suggestions != nil {
		return *wrapped.Suggestions, true
	}
	return nil, false
}

func convert(raw []rawSuggestion) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, len(raw))
	for _, r := range raw {
		field, msg := strings.TrimSpace(r.Field), strings.TrimSpace(r.Message)
		if field == "" || msg == "" {
			continue
		}
		s := domain.Suggestion{
			Field:      field,
			Severity:   domain.ParseSeverity(r.Severity),
			Message:    msg,
			Suggestion: strings.TrimSpace(r.Suggestion),
			Source:     domain.SourceAI,
		}
		if r.AutoFixContent != nil && !r.AutoFixContent.IsZero() {
			fix := *r.AutoFixContent
			s.AutoFixContent = &fix
		}
		out = append(out, s)
	}
	return out
}

// parseLines reads the loose "key: value" format some models fall back to.
// A new "field:" line starts a new suggestion.
func parseLines(content string) []rawSuggestion {
	var out []rawSuggestion
	var cur rawSuggestion
	flush := func() {
		if cur.Field != "" && cur.Message != "" {
			out = append(out, cur)
		}
		cur = rawSuggestion{}
	}

	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.Trim(strings.TrimSpace(key), "-*# "))
		value = strings.TrimSpace(value)
		switch key {
		case "field":
			if cur.Field != "" {
				flush()
			}
			cur.Field = value
		case "severity":
			cur.Severity = value
		case "message", "issue":
			cur.Message = value
		case "suggestion", "recommendation":
			cur.Suggestion = value
		}
	}
	flush()
	return out
}

// ExtractJSON returns the first JSON value in s: the body of a ``` fenced
// block if there is one, otherwise the first balanced {...} or [...] run.
// It returns "" when there is none.
func ExtractJSON(s string) string {
	if fenced := fencedBlock(s); fenced != "" {
		if v := balanced(fenced); v != "" {
			return v
		}
	}
	return balanced(s)
}

func fencedBlock(s string) string {
	open := strings.Index(s, "```")
	if open == -1 {
		return ""
	}
	rest := s[open+3:]
	nl := strings.Index(rest, "\n")
	if nl == -1 {
		return ""
	}
	rest = rest[nl+1:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// balanced scans for the first '{' or '[' and returns the run up to its
// matching close, skipping brackets inside strings.
func balanced(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{' || ch == '[':
			depth++
		case ch == '}' || ch == ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

type rawReview struct {
	LanguageScore     *float64        `json:"languageScore"`
	ToneScore         *float64        `json:"toneScore"`
	CompletenessScore *float64        `json:"completenessScore"`
	Suggestions       json.RawMessage `json:"suggestions"`
}

// ParseReview reads the review object. Missing scores default to 70/70/60,
// scores are clamped to 0-100 and at most MaxReviewSuggestions are kept.
func ParseReview(content string) (domain.ReviewResult, error) {
	body := strings.TrimSpace(content)
	var raw rawReview
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		embedded := ExtractJSON(body)
		if embedded == "" {
			return domain.ReviewResult{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		if err := json.Unmarshal([]byte(embedded), &raw); err != nil {
			return domain.ReviewResult{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
	}

	res := domain.ReviewResult{
		LanguageScore:     score(raw.LanguageScore, 70),
		ToneScore:         score(raw.ToneScore, 70),
		CompletenessScore: score(raw.CompletenessScore, 60),
		Status:            domain.AugmentOK,
	}

	var suggestions []string
	if err := json.Unmarshal(raw.Suggestions, &suggestions); err != nil || suggestions == nil {
		suggestions = []string{"Please review all sections for completeness"}
	}
	if len(suggestions) > domain.MaxReviewSuggestions {
		suggestions = suggestions[:domain.MaxReviewSuggestions]
	}
	res.Suggestions = suggestions
	return res, nil
}

func score(v *float64, def int) int {
	if v == nil {
		return def
	}
	return max(0, min(100, int(*v+0.5)))
}

type rawDraft struct {
	domain.FormSnapshot
	SpecialConsiderations string `json:"specialConsiderations"`
}

// ParseDraft reads a drafted form. Hazards outside the known list are
// dropped and special considerations are kept with the custom hazards.
func ParseDraft(content string) (domain.FormSnapshot, error) {
	body := ExtractJSON(content)
	if body == "" {
		return domain.FormSnapshot{}, fmt.Errorf("%w: no JSON object in reply", ErrUnparseable)
	}
	var raw rawDraft
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return domain.FormSnapshot{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	form := raw.FormSnapshot
	hazards := form.SelectedHazards[:0]
	for _, h := range form.SelectedHazards {
		if known(h) {
			hazards = append(hazards, h)
		}
	}
	form.SelectedHazards = hazards
	form.SelectedPPE = nil

	if sc := strings.TrimSpace(raw.SpecialConsiderations); sc != "" {
		if form.CustomHazards != "" {
			form.CustomHazards += "\n"
		}
		form.CustomHazards += "Special considerations: " + sc
	}
	return form, nil
}

func known(h domain.Hazard) bool {
	for _, v := range domain.ValidHazards {
		if v == h {
			return true
		}
	}
	return false
}
