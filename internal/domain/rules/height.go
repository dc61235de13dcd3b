package rules

import "github.com/Hannlytics/rams-generator/internal/domain"

var fallProtection = []string{"scaffold", "harness", "edge protection", "fall arrest", "mewp"}

func workingAtHeightRules() []Rule {
	refs := []string{"Work at Height Regulations 2005, Regulation 6", "CDM 2015 Schedule 2"}
	return []Rule{
		{
			ID: "WAH-001", Regulation: domain.RegulationWorkingAtHeight, Field: domain.FieldControls,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityHigh,
			Message:    "Working at height requires specific fall protection measures such as scaffold, edge protection or a harness.",
			Suggestion: "Describe the access equipment and fall protection in the control measures.",
			References: refs,
			Check: func(f domain.FormSnapshot) bool {
				return !f.HasHazard(domain.HazardWorkingAtHeight) || mentions(f.Controls, fallProtection...)
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return appendSection(f.Controls, `Work at Height Controls:
- Hierarchy of controls applied: avoid, then prevent, then mitigate
- Edge protection installed to BS EN 13374
- Fall arrest: full body harness (BS EN 361) with shock-absorbing lanyard where edge protection is not practicable
- Scaffold erected by CISRS qualified scaffolders and inspected every 7 days
- Rescue plan in place with trained personnel
- Weather monitored; no work in winds above 23mph`)
			},
		},
		{
			ID: "WAH-002", Regulation: domain.RegulationWorkingAtHeight, Field: domain.FieldControls,
			CheckType:  CheckCompleteness,
			Severity:   domain.SeverityMedium,
			Message:    "Working at height needs a rescue plan for anyone arrested by fall protection.",
			References: refs,
			Check: func(f domain.FormSnapshot) bool {
				return !f.HasHazard(domain.HazardWorkingAtHeight) || !present(f.Controls) || mentions(f.Controls, "rescue")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return appendSection(f.Controls, "Rescue plan: a trained rescue team and rescue kit are available "+
					"whenever work at height is in progress. Suspended operatives are recovered within 10 minutes.")
			},
		},
	}
}
