package domain

import "time"

// ValidationReport is the full result of one validation run.
type ValidationReport struct {
	Suggestions     []Suggestion   `json:"suggestions"`
	ComplianceScore int            `json:"complianceScore"`
	Grade           string         `json:"grade"`
	Band            ComplianceBand `json:"band"`
	IsValid         bool           `json:"isValid"`
	ErrorCount      int            `json:"errorCount"`
	WarningCount    int            `json:"warningCount"`
	Summary         string         `json:"summary"`
	Recommendations []string       `json:"recommendations"`
	AI              AugmentResult  `json:"ai"`
	Metadata        ReportMetadata `json:"metadata"`
}

type ReportMetadata struct {
	ValidationTimestamp time.Time `json:"validationTimestamp"`
	RegulationsChecked  []string  `json:"regulationsChecked"`
	AIPowered           bool      `json:"aiPowered"`
	Step                FormStep  `json:"step,omitempty"`
}

// ValidateRequest selects what a validation run covers. A zero Step means
// the whole form; empty Regulations means every regulation.
type ValidateRequest struct {
	Form        FormSnapshot
	Step        FormStep
	Regulations []Regulation
	UseAI       bool
}
