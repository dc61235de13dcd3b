package rules

import (
	"fmt"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

const (
	methodMinChars       = 50
	genericMethodMaxChar = 200
	controlsMinChars     = 100
	tradeElectrician     = "Electrician"
)

var genericPhrases = []string{
	"follow standard procedure",
	"work safely",
	"use appropriate ppe",
	"take care",
	"be careful",
}

func cdmRules() []Rule {
	cdm := []string{"CDM 2015 Regulation 12", "CDM 2015 Schedule 3"}
	return []Rule{
		{
			ID: "CDM-001", Regulation: domain.RegulationCDM, Field: domain.FieldMethodStatement,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityHigh,
			Message:    "Method statement is required. Please provide detailed steps for how the work will be carried out safely.",
			Suggestion: "Describe preparation, access, the main work sequence, quality checks and completion.",
			References: cdm,
			Check:      func(f domain.FormSnapshot) bool { return present(f.MethodStatement) },
			Fix:        func(f domain.FormSnapshot) domain.FixContent { return domain.TextFix(methodStatementFor(f)) },
		},
		{
			ID: "CDM-002", Regulation: domain.RegulationCDM, Field: domain.FieldMethodStatement,
			CheckType:  CheckDetail,
			Severity:   domain.SeverityMedium,
			Message:    "The method statement is brief. Consider adding more detail about the sequence of operations and specific safety controls.",
			References: cdm,
			Check: func(f domain.FormSnapshot) bool {
				return !present(f.MethodStatement) || len(f.MethodStatement) >= methodMinChars
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent { return domain.TextFix(methodStatementFor(f)) },
		},
		{
			ID: "CDM-003", Regulation: domain.RegulationCDM, Field: domain.FieldMethodStatement,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityMedium,
			Message:    "The method statement appears to contain generic phrases. Consider adding more specific, detailed procedures for this particular task.",
			References: cdm,
			Check: func(f domain.FormSnapshot) bool {
				return !(mentions(f.MethodStatement, genericPhrases...) && len(f.MethodStatement) < genericMethodMaxChar)
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent { return domain.TextFix(methodStatementFor(f)) },
		},
		{
			ID: "CDM-004", Regulation: domain.RegulationCDM, Field: domain.FieldSequenceOfOperations,
			CheckType:  CheckCompleteness,
			Severity:   domain.SeverityMedium,
			Message:    "Consider adding a detailed sequence of operations to complement your method statement.",
			References: cdm,
			Check: func(f domain.FormSnapshot) bool {
				return !present(f.MethodStatement) || present(f.SequenceOfOperations)
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return domain.TextFix("Sequence of operations:\n" + taskSteps(f.Trade))
			},
		},
		{
			ID: "CDM-005", Regulation: domain.RegulationCDM, Field: domain.FieldScopeOfWork,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityHigh,
			Message:    "Scope of work is required. Describe the works, their location and their limits.",
			References: cdm,
			Check:      func(f domain.FormSnapshot) bool { return present(f.ScopeOfWork) },
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return domain.TextFix(fmt.Sprintf("Scope of work: %s by %s operatives at %s. "+
					"[Describe the extent of the works, the areas affected and any exclusions.]",
					orDefault(f.TaskType, "General works"), orDefault(f.Trade, "competent"), orDefault(f.SiteAddress, "the site")))
			},
		},
		{
			ID: "CDM-006", Regulation: domain.RegulationCDM, Field: domain.FieldPersonsAtRisk,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityMedium,
			Message:    "Identify the persons at risk from the work.",
			References: []string{"Management of Health and Safety at Work Regulations 1999, Regulation 3"},
			Check:      func(f domain.FormSnapshot) bool { return present(f.PersonsAtRisk) },
			Fix: func(domain.FormSnapshot) domain.FixContent {
				return domain.TextFix("Operatives carrying out the work, other contractors on site, site visitors, " +
					"and members of the public in the vicinity of the works.")
			},
		},
		{
			ID: "CDM-007", Regulation: domain.RegulationCDM, Field: domain.FieldControls,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityHigh,
			Message:    "Control measures are required. Please specify how risks will be managed.",
			References: cdm,
			Check:      func(f domain.FormSnapshot) bool { return present(f.Controls) },
			Fix:        func(f domain.FormSnapshot) domain.FixContent { return appendSection(f.Controls, generalControls) },
		},
		{
			ID: "CDM-008", Regulation: domain.RegulationCDM, Field: domain.FieldControls,
			CheckType:  CheckDetail,
			Severity:   domain.SeverityMedium,
			Message:    "Control measures seem brief. Consider adding more detailed risk control information.",
			References: cdm,
			Check: func(f domain.FormSnapshot) bool {
				return !present(f.Controls) || len(f.Controls) >= controlsMinChars
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent { return appendSection(f.Controls, generalControls) },
		},
		{
			ID: "CDM-009", Regulation: domain.RegulationCDM, Field: domain.FieldControls,
			CheckType:  CheckKeyword,
			Severity:   domain.SeverityCritical,
			Message:    "Electrical work requires isolation procedures.",
			Suggestion: "Add a safe isolation procedure: lock off, prove dead, post warning notices.",
			References: []string{"Electricity at Work Regulations 1989, Regulation 12", "HSE GS38"},
			Check: func(f domain.FormSnapshot) bool {
				electrical := strings.EqualFold(strings.TrimSpace(f.Trade), tradeElectrician) || f.HasHazard(domain.HazardElectrical)
				return !electrical || mentions(f.Controls, "isolat")
			},
			Fix: func(f domain.FormSnapshot) domain.FixContent { return appendSection(f.Controls, safeIsolation) },
		},
		{
			ID: "CDM-010", Regulation: domain.RegulationCDM, Field: domain.FieldEmergencyContacts,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityHigh,
			Message:    "Emergency contacts are required.",
			References: cdm,
			Check:      func(f domain.FormSnapshot) bool { return present(f.EmergencyContacts) },
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return appendSection(f.EmergencyContacts, fmt.Sprintf(
					"Emergency Services: 999\nSite Manager: %s - %s\nFirst Aider: [Name] - [Number]\n"+
						"Nearest Hospital: [Name & Address]\nRIDDOR reporting (HSE Incident Contact Centre): 0345 300 9923",
					orDefault(f.SiteManager, "[Name]"), orDefault(f.ContactNumber, "[Number]")))
			},
		},
		{
			ID: "CDM-011", Regulation: domain.RegulationCDM, Field: domain.FieldProjectName,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityHigh,
			Message:    "Project name is required.",
			References: cdm,
			Check:      func(f domain.FormSnapshot) bool { return present(f.ProjectName) },
			Fix: func(f domain.FormSnapshot) domain.FixContent {
				return domain.TextFix(fmt.Sprintf("%s - %s",
					orDefault(f.TaskType, "General Works"), orDefault(f.SiteAddress, "[Site address]")))
			},
		},
		{
			ID: "CDM-012", Regulation: domain.RegulationCDM, Field: domain.FieldClientName,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityHigh,
			Message:    "Client name is required.",
			Suggestion: "Name the client who commissioned the works; CDM places duties on them.",
			References: []string{"CDM 2015 Regulation 4"},
			Check:      func(f domain.FormSnapshot) bool { return present(f.ClientName) },
			Fix: func(domain.FormSnapshot) domain.FixContent {
				return domain.TextFix("[Client name]")
			},
		},
		// Only the person signing off can confirm competency, so there is no fix.
		{
			ID: "CDM-013", Regulation: domain.RegulationCDM, Field: domain.FieldCompetentPersonVerified,
			CheckType:  CheckRequiredSection,
			Severity:   domain.SeverityCritical,
			Message:    "Competent person verification required.",
			Suggestion: "Complete the competency check and confirm the RAMS was prepared by a competent person.",
			References: []string{"CDM 2015 Regulation 8"},
			Check:      func(f domain.FormSnapshot) bool { return f.CompetentPersonVerified },
		},
	}
}

const generalControls = `Control measures:
- Work area segregated with barriers and signage before work starts
- All operatives inducted and briefed on this RAMS and the safe system of work
- Tools and equipment inspected before use; defective items quarantined
- Supervisor to monitor compliance throughout the shift and stop work if conditions change`

const safeIsolation = `Safe Isolation Procedure:
- Identify the circuit and isolate at the point of supply
- Lock off with a personal padlock and post a warning notice
- Prove the voltage indicator on a known source, test the circuit dead, then re-prove the indicator (GS38)
- Only the person who applied the lock may remove it once work is complete and tested`

func orDefault(s, def string) string {
	if present(s) {
		return strings.TrimSpace(s)
	}
	return def
}

var tradeSteps = map[string][]string{
	"Electrician": {
		"Obtain permit for electrical work",
		"Lock off and tag electrical supply",
		"Test with approved voltage tester",
		"Confirm dead and post warning signs",
		"Carry out work as per BS 7671",
		"Test installation and complete certificates",
		"Remove lock off and restore power safely",
	},
	"Bricklayer": {
		"Set out work area and establish datum levels",
		"Check materials conform to specification",
		"Mix mortar to correct consistency",
		"Lay bricks to line and level",
		"Check plumb and gauge regularly",
		"Install DPC and wall ties as required",
		"Point and clean down work",
	},
}

var defaultSteps = []string{
	"Prepare work area",
	"Check materials and tools",
	"Execute main task",
	"Quality check work",
	"Clean and secure area",
}

var tolerancesMM = map[string]int{
	"Bricklayer":         10,
	"Carpenter / Joiner": 5,
	"Steel Erector":      3,
	"Electrician":        5,
}

func taskSteps(trade string) string {
	steps, ok := tradeSteps[strings.TrimSpace(trade)]
	if !ok {
		steps = defaultSteps
	}
	var b strings.Builder
	for i, s := range steps {
		fmt.Fprintf(&b, "   %c. %s\n", 'a'+rune(i), s)
	}
	return strings.TrimRight(b.String(), "\n")
}

func methodStatementFor(f domain.FormSnapshot) string {
	trade := orDefault(f.Trade, "General Construction")
	tolerance, ok := tolerancesMM[trade]
	if !ok {
		tolerance = 10
	}

	return fmt.Sprintf(`Method Statement for %s:

1. PREPARATION PHASE
   - Site induction completed for all operatives
   - Permit to work obtained (if required)
   - Service drawings reviewed and CAT scan completed
   - Materials and tools inspected and certified
   - Exclusion zones established with Heras fencing

2. SETUP & ACCESS
   - Welfare facilities confirmed operational
   - Access routes cleared and signed
   - Emergency egress routes verified and communicated
   - Work area barriers erected with appropriate signage

3. MAIN WORK SEQUENCE
%s

4. QUALITY CHECKS
   - Dimensional tolerance: +/-%dmm
   - Visual inspection for defects
   - Testing as per British Standards
   - Sign-off by supervisor

5. COMPLETION
   - Work area cleaned and waste segregated
   - Barriers removed only after area is safe
   - Handover documentation completed`, orDefault(f.TaskType, "General Works"), taskSteps(trade), tolerance)
}
