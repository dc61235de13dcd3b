package rules

import "github.com/Hannlytics/rams-generator/internal/domain"

func manualHandlingRules() []Rule {
	return []Rule{
		{
			ID: "MH-001", Regulation: domain.RegulationManualHandling, Field: domain.FieldControls,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityMedium,
			Message:    "Manual handling is selected but no lifting controls are described.",
			Suggestion: "State load limits, team lifts and mechanical aids.",
			References: []string{"Manual Handling Operations Regulations 1992, Regulation 4"},
			Check: func(f domain.FormSnapshot) bool {
				return !f.HasHazard(domain.HazardManualHandling) || mentions(f.Controls, "lift", "mechanical aid", "manual handling")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return appendSection(f.Controls, `Manual Handling Controls:
- Manual handling assessment completed for loads over 25kg
- Mechanical aids (trolleys, hoists) used wherever practicable
- Team lifts planned and supervised for awkward or heavy loads
- Operatives trained in safe lifting technique`)
			},
		},
	}
}
