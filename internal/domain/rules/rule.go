// Package rules holds the canonical compliance rule table and the evaluator
// that runs it against a form snapshot.
package rules

import (
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

// CheckType classifies what a rule's predicate looks for.
type CheckType string

const (
	CheckRequiredSection CheckType = "required_section"
	CheckDetail          CheckType = "detail"
	CheckKeyword         CheckType = "keyword_check"
	CheckCompleteness    CheckType = "completeness"
)

// Rule is one static compliance check. Check must be a pure function of the
// snapshot and returns true when the rule is satisfied. Fix produces content
// for Field that makes Check pass.
type Rule struct {
	ID         string
	Regulation domain.Regulation
	Field      string
	CheckType  CheckType
	Severity   domain.Severity
	Message    string
	Suggestion string
	References []string
	Check      func(domain.FormSnapshot) bool
	Fix        func(domain.FormSnapshot) domain.FixContent
}

// Info is the serializable view of a rule.
type Info struct {
	ID         string            `json:"id"`
	Regulation domain.Regulation `json:"regulation"`
	Field      string            `json:"field"`
	CheckType  CheckType         `json:"check_type"`
	Severity   domain.Severity   `json:"severity"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	References []string          `json:"references,omitempty"`
	AutoFix    bool              `json:"auto_fix"`
}

func (r Rule) Info() Info {
	return Info{
		ID:         r.ID,
		Regulation: r.Regulation,
		Field:      r.Field,
		CheckType:  r.CheckType,
		Severity:   r.Severity,
		Message:    r.Message,
		Suggestion: r.Suggestion,
		References: r.References,
		AutoFix:    r.Fix != nil,
	}
}

// present reports whether s has any non-space content.
func present(s string) bool { return strings.TrimSpace(s) != "" }

// mentions reports whether s contains any of words, ignoring case.
func mentions(s string, words ...string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// appendSection adds section after existing text so several fixes can
// target the same field in sequence.
func appendSection(existing, section string) domain.FixContent {
	existing = strings.TrimRight(existing, " \t\n")
	if existing == "" {
		return domain.TextFix(section)
	}
	return domain.TextFix(existing + "\n\n" + section)
}

func anyHazard(f domain.FormSnapshot, hs ...domain.Hazard) bool {
	for _, h := range hs {
		if f.HasHazard(h) {
			return true
		}
	}
	return false
}
