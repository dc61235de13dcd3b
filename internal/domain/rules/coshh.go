package rules

import (
	"fmt"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

// Substances recognized in the scope of work when drafting a COSHH assessment.
var commonSubstances = []string{"paint", "adhesive", "cement", "solvent", "fuel", "oil", "asbestos", "silica"}

// Scope keywords that imply hazardous substances even when the hazard is not ticked.
var substanceKeywords = []string{"paint", "adhesive", "solvent", "chemical", "fumes"}

func coshhRules() []Rule {
	refs := []string{"COSHH 2002 Regulation 6", "COSHH 2002 Regulation 7"}
	return []Rule{
		{
			ID: "COSHH-001", Regulation: domain.RegulationCOSHH, Field: domain.FieldControls,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityHigh,
			Message:    "Hazardous Substances are selected, but no specific COSHH assessment or controls are mentioned in the control measures.",
			References: refs,
			Check: func(f domain.FormSnapshot) bool {
				return !f.HasHazard(domain.HazardCOSHH) || mentions(f.Controls, "coshh")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent { return appendSection(f.Controls, coshhAssessment(f)) },
		},
		{
			ID: "COSHH-002", Regulation: domain.RegulationCOSHH, Field: domain.FieldControls,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityMedium,
			Message:    "COSHH Regulation 6 requires safety data sheets for all hazardous substances.",
			References: refs,
			Check: func(f domain.FormSnapshot) bool {
				return !f.HasHazard(domain.HazardCOSHH) || mentions(f.Controls, "data sheet", "sds")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return appendSection(f.Controls, "Safety Data Sheets (SDS) for every substance are held in the site office "+
					"and briefed to operatives before use. Substances are stored in original labelled containers and "+
					"incompatible substances are kept apart.")
			},
		},
		{
			ID: "COSHH-003", Regulation: domain.RegulationCOSHH, Field: domain.FieldControls,
			CheckType:  CheckCompleteness,
			Severity:   domain.SeverityHigh,
			Message:    "The scope of work mentions hazardous substances, but no COSHH assessment is referenced.",
			Suggestion: "Select the Hazardous Substances (COSHH) hazard and reference the COSHH assessment in the control measures.",
			References: refs,
			Check: func(f domain.FormSnapshot) bool {
				return !mentions(f.ScopeOfWork, substanceKeywords...) ||
					f.HasHazard(domain.HazardCOSHH) ||
					mentions(f.Controls, "coshh")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent { return appendSection(f.Controls, coshhAssessment(f)) },
		},
	}
}

func extractSubstances(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, s := range commonSubstances {
		if strings.Contains(lower, s) {
			out = append(out, s)
		}
	}
	return out
}

func coshhAssessment(f domain.FormSnapshot) string {
	substances := extractSubstances(f.ScopeOfWork)
	if len(substances) == 0 {
		substances = []string{"General substances"}
	}

	var b strings.Builder
	b.WriteString("COSHH Assessment (Regulation 6 compliant):")
	for _, s := range substances {
		fmt.Fprintf(&b, "\n- %s:\n  SDS reference: available on site\n  Control measures: LEV/RPE/PPE as required\n"+
			"  Storage: locked COSHH cabinet\n  Disposal: via licensed waste carrier\n  Emergency: eye wash station available",
			strings.ToUpper(s[:1])+s[1:])
	}
	return b.String()
}
