// Package prompt builds the LLM prompts for RAMS validation, review and
// drafting, and parses the replies back into domain types.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

// ValidationSystem is the system instruction for suggestion-style validation.
const ValidationSystem = "You are a health and safety expert analyzing RAMS documents. " +
	"Provide structured feedback with specific suggestions for improvement."

// ReviewSystem is the system instruction for the quality review.
const ReviewSystem = "You are a UK construction safety compliance expert specializing in " +
	"CDM 2015, COSHH, RIDDOR, and PPE regulations. Respond only with valid JSON."

const missing = "Not provided"

// Project renders the human-readable projection of a form sent to the model.
// Only the fields that matter for compliance are included.
func Project(f domain.FormSnapshot) string {
	var b strings.Builder
	line := func(label, value, empty string) {
		if strings.TrimSpace(value) == "" {
			value = empty
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	line("Project Name", f.ProjectName, missing)
	line("Trade", f.Trade, missing)
	line("Task Type", f.TaskType, missing)
	line("Scope of Work", f.ScopeOfWork, missing)
	line("Method Statement", f.MethodStatement, missing)
	line("Sequence of Operations", f.SequenceOfOperations, missing)
	line("Persons at Risk", f.PersonsAtRisk, missing)
	line("Identified Hazards", f.Text(domain.FieldSelectedHazards), "None")
	line("Control Measures", f.Controls, missing)
	line("PPE", f.Text(domain.FieldSelectedPPE), missing)
	line("Emergency Contacts", f.EmergencyContacts, missing)
	return b.String()
}

// Validation asks for suggestions in the JSON array format ParseSuggestions reads.
func Validation(f domain.FormSnapshot) string {
	return `Here is a RAMS (Risk Assessment & Method Statement) document.

Check if it complies with UK regulations including CDM 2015, COSHH, RIDDOR and PPE.

Perform the following:
- Highlight any missing sections, unclear items, or compliance issues.
- For each issue, provide a suggested improvement as a complete block of text.
- Return structured JSON output.

RAMS Document:
"""
` + Project(f) + `"""

Return output in this JSON format. If fully compliant, return an empty array []:

[
  {
    "field": "methodStatement",
    "severity": "high",
    "message": "The method statement is too generic and lacks detail.",
    "suggestion": "Expand the method statement to include site setup, waste removal, and emergency procedures.",
    "autoFixContent": "1. Site Setup: Cordon off the work area using barriers and signage. 2. Main Task: Carry out the work as per the manufacturer's instructions. 3. Waste Removal: All waste materials to be disposed of in the designated site skip. 4. Cleanup: The work area will be left clean and tidy at the end of each shift."
  }
]

Valid field names: ` + strings.Join(textFieldNames(), ", ") + `.
Valid severities: low, medium, high, critical.`
}

// Review asks for the three quality scores and up to five suggestions.
func Review(f domain.FormSnapshot) string {
	return fmt.Sprintf(`As a construction safety compliance expert, analyze this RAMS document data for quality and compliance.

Form Data:
- Project: %s
- Client: %s
- Scope: %s
- Method Statement: %s
- Controls: %s
- Emergency Contacts: %s
- Hazards: %s
- PPE: %s

Evaluate and return JSON with:
1. languageScore (0-100): Professional language, technical accuracy, clarity
2. toneScore (0-100): Appropriate safety-focused tone, not too casual
3. completenessScore (0-100): All required sections present and detailed
4. suggestions: Array of specific improvement suggestions (max %d)

Respond ONLY with valid JSON, no additional text.`,
		orMissing(f.ProjectName), orMissing(f.ClientName), orMissing(f.ScopeOfWork),
		orMissing(f.MethodStatement), orMissing(f.Controls), orMissing(f.EmergencyContacts),
		jsonList(f.Text(domain.FieldSelectedHazards)), jsonList(f.Text(domain.FieldSelectedPPE)),
		domain.MaxReviewSuggestions)
}

// DraftSystem is the system instruction for drafting a RAMS from a free-text brief.
func DraftSystem() string {
	hazards := make([]string, 0, len(domain.ValidHazards))
	for _, h := range domain.ValidHazards {
		hazards = append(hazards, fmt.Sprintf("%q", h))
	}
	return `You are a UK construction safety expert specializing in RAMS (Risk Assessment Method Statements).

IMPORTANT: You must respond with ONLY valid JSON in this exact format:
{
  "projectName": "string",
  "trade": "string",
  "taskType": "string",
  "scopeOfWork": "string",
  "methodStatement": "string",
  "sequenceOfOperations": "string",
  "personsAtRisk": "string",
  "selectedHazards": ["string1", "string2"],
  "controls": "string",
  "specialConsiderations": "string"
}

Guidelines:
- Use UK construction terminology and regulations
- Reference CDM 2015, COSHH, and relevant standards
- Include specific control measures, not generic advice
- Hazards must be from: ` + strings.Join(hazards, ", ") + `
- Method statements should be step-by-step and detailed
- Always include disclaimer that this requires professional review
- Be specific to UK construction practices and regulations`
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

func jsonList(joined string) string {
	if joined == "" {
		return "[]"
	}
	return "[" + joined + "]"
}

func textFieldNames() []string {
	var out []string
	for _, f := range domain.Fields() {
		if f.Kind != domain.KindBool {
			out = append(out, f.Name)
		}
	}
	return out
}
