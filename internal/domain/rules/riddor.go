package rules

import (
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

var highRiskHazards = []domain.Hazard{
	domain.HazardWorkingAtHeight,
	domain.HazardElectrical,
	domain.HazardConfinedSpaces,
	domain.HazardHotWorks,
}

func riddorRules() []Rule {
	return []Rule{
		// Fires on any filled-in emergency plan, so a complete form must name
		// the RIDDOR or HSE reporting route to reach 100.
		{
			ID: "RIDDOR-001", Regulation: domain.RegulationRIDDOR, Field: domain.FieldEmergencyContacts,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityMedium,
			Message:    "RIDDOR reporting contact details must be readily available.",
			Suggestion: "Add the HSE Incident Contact Centre number and the person responsible for reporting.",
			References: []string{"RIDDOR 2013 Regulation 4", "RIDDOR 2013 Regulation 7"},
			Check: func(f domain.FormSnapshot) bool {
				return !present(f.EmergencyContacts) || mentions(f.EmergencyContacts, "riddor", "hse", "0345")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return appendSection(f.EmergencyContacts, fmt.Sprintf(`RIDDOR Reporting Procedure:
- HSE Contact: 0345 300 9923 (fatal/specified injuries: report immediately)
- Online reporting: www.hse.gov.uk/riddor
- Responsible person: %s
- Site accident book location: site office`, orDefault(f.SiteManager, "[Site Manager]")))
			},
		},
		{
			ID: "RIDDOR-002", Regulation: domain.RegulationRIDDOR, Field: domain.FieldFirstAidArrangements,
			CheckType:  CheckCompleteness,
			Severity:   domain.SeverityMedium,
			Message:    "High-risk activities are selected but no first aid arrangements are recorded.",
			References: []string{"Health and Safety (First-Aid) Regulations 1981"},
			Check: func(f domain.FormSnapshot) bool {
				return !anyHazard(f, highRiskHazards...) || present(f.FirstAidArrangements)
			},
			Fix: func(domain.FormSnapshot) domain.FixContent {
				return domain.TextFix("Qualified first aider on site at all times during high-risk activities. " +
					"First aid kit and eye wash station located in the site office. " +
					"All injuries recorded in the accident book and reportable incidents notified under RIDDOR.")
			},
		},
	}
}
