package domain

import (
	"fmt"
	"strings"
)

// Severity ranks how serious a finding is: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ValidSeverities enumerates severities from most to least serious.
var ValidSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank orders severities; higher is more serious. Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// IsError reports whether findings at this severity block a compliant result.
func (s Severity) IsError() bool { return s.Rank() >= SeverityHigh.Rank() }

// ParseSeverity is lenient: anything unrecognized becomes medium.
func ParseSeverity(s string) Severity {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if sev.Rank() == 0 {
		return SeverityMedium
	}
	return sev
}

// Regulation tags a rule with the UK regulation it enforces.
type Regulation string

const (
	RegulationCDM             Regulation = "CDM"
	RegulationCOSHH           Regulation = "COSHH"
	RegulationRIDDOR          Regulation = "RIDDOR"
	RegulationWorkingAtHeight Regulation = "WORKING_AT_HEIGHT"
	RegulationManualHandling  Regulation = "MANUAL_HANDLING"
	RegulationPPE             Regulation = "PPE"
)

// RegulationOrder is the fixed order in which rule groups are evaluated.
var RegulationOrder = []Regulation{
	RegulationCDM,
	RegulationCOSHH,
	RegulationRIDDOR,
	RegulationWorkingAtHeight,
	RegulationManualHandling,
	RegulationPPE,
}

var regulationTitles = map[Regulation]string{
	RegulationCDM:             "CDM 2015",
	RegulationCOSHH:           "COSHH 2002",
	RegulationRIDDOR:          "RIDDOR 2013",
	RegulationWorkingAtHeight: "Work at Height Regulations 2005",
	RegulationManualHandling:  "Manual Handling Operations Regulations 1992",
	RegulationPPE:             "PPE at Work Regulations 1992",
}

// Title is the regulation's citation as shown to users.
func (r Regulation) Title() string {
	if t, ok := regulationTitles[r]; ok {
		return t
	}
	return string(r)
}

// ParseRegulation accepts tags in any case, with spaces or dashes
// in place of underscores ("working-at-height" -> WORKING_AT_HEIGHT).
func ParseRegulation(s string) (Regulation, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, r := range RegulationOrder {
		if string(r) == norm {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegulation, s)
}

// ParseRegulations parses a list of tags, failing on the first unknown one.
func ParseRegulations(tags []string) ([]Regulation, error) {
	out := make([]Regulation, 0, len(tags))
	for _, t := range tags {
		r, err := ParseRegulation(t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Source says where a suggestion came from.
type Source string

const (
	SourceRule Source = "rule"
	SourceAI   Source = "ai"
)

// Suggestion is one validation finding. It is produced fresh on every
// validation run and never stored.
type Suggestion struct {
	ID             string      `json:"id,omitempty"`
	Field          string      `json:"field"`
	Severity       Severity    `json:"severity"`
	Regulation     Regulation  `json:"regulation,omitempty"`
	Message        string      `json:"message"`
	Suggestion     string      `json:"suggestion,omitempty"`
	AutoFixContent *FixContent `json:"autoFixContent,omitempty"`
	Source         Source      `json:"source"`
}

// HasFix reports whether the suggestion carries auto-fix content.
func (s Suggestion) HasFix() bool { return s.AutoFixContent != nil && !s.AutoFixContent.IsZero() }

// GradeFor maps a compliance score to a letter grade.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// ComplianceBand is the coarse verdict shown next to the score.
type ComplianceBand string

const (
	BandCompliant    ComplianceBand = "compliant"
	BandReviewNeeded ComplianceBand = "review_needed"
	BandNonCompliant ComplianceBand = "non_compliant"
)

// BandFor classifies a score. Any high or critical finding rules out
// BandCompliant regardless of score.
func BandFor(score int, suggestions []Suggestion) ComplianceBand {
	errs, _ := CountFindings(suggestions)
	switch {
	case score >= 80 && errs == 0:
		return BandCompliant
	case score >= 50:
		return BandReviewNeeded
	default:
		return BandNonCompliant
	}
}

// CountFindings splits suggestions into errors (high, critical)
// and warnings (medium, low).
func CountFindings(suggestions []Suggestion) (errs, warnings int) {
	for _, s := range suggestions {
		if s.Severity.IsError() {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}

// SummaryFor renders the one-line result summary, e.g. "Found 2 errors and 1 warning."
func SummaryFor(errs, warnings int) string {
	if errs == 0 && warnings == 0 {
		return "All validations passed successfully."
	}
	if errs == 0 {
		return fmt.Sprintf("No blocking issues. Found %s.", plural(warnings, "warning"))
	}

	parts := []string{plural(errs, "error")}
	if warnings > 0 {
		parts = append(parts, plural(warnings, "warning"))
	}
	return "Found " + strings.Join(parts, " and ") + "."
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
