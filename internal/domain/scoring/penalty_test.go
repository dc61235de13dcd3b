package scoring_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/Hannlytics/rams-generator/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadForm(t *testing.T, name string) domain.FormSnapshot {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "..", "testdata", "forms", name))
	require.NoError(t, err)
	var f domain.FormSnapshot
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestScore_NoSuggestionsIsExactly100(t *testing.T) {
	calc := scoring.Default()
	assert.Equal(t, 100, calc.Score(domain.FormSnapshot{}, nil))

	// bonuses cannot push past the ceiling
	assert.Equal(t, 100, calc.Score(domain.FormSnapshot{ReviewedBy: "J. Smith"}, nil))
}

func TestScore_PerSeverityWeights(t *testing.T) {
	calc := scoring.Default()
	tests := []struct {
		sev  domain.Severity
		want int
	}{
		{domain.SeverityCritical, 60},
		{domain.SeverityHigh, 75},
		{domain.SeverityMedium, 90},
		{domain.SeverityLow, 95},
	}
	for _, tt := range tests {
		got := calc.Score(domain.FormSnapshot{}, []domain.Suggestion{{Severity: tt.sev}})
		assert.Equal(t, tt.want, got, string(tt.sev))
	}
}

func TestScore_EachSuggestionCountsOnce(t *testing.T) {
	// two rules flag the same field; each deducts its own weight, nothing more
	sugs := []domain.Suggestion{
		{ID: "CDM-007", Field: domain.FieldControls, Severity: domain.SeverityHigh},
		{ID: "WAH-001", Field: domain.FieldControls, Severity: domain.SeverityHigh},
	}
	assert.Equal(t, 50, scoring.Default().Score(domain.FormSnapshot{}, sugs))
}

func TestScore_ClampsAtZero(t *testing.T) {
	sugs := make([]domain.Suggestion, 5)
	for i := range sugs {
		sugs[i].Severity = domain.SeverityCritical
	}
	assert.Equal(t, 0, scoring.Default().Score(domain.FormSnapshot{}, sugs))
}

func TestScore_Bonuses(t *testing.T) {
	form := domain.FormSnapshot{
		ReviewedBy:      "J. Smith",
		Controls:        strings.Repeat("c", 501),
		MethodStatement: strings.Repeat("m", 1001),
	}
	sugs := []domain.Suggestion{{Severity: domain.SeverityHigh}, {Severity: domain.SeverityMedium}}

	b := scoring.Default().Breakdown(form, sugs)
	assert.Equal(t, 100-25-10+15, b.Score)
	assert.Len(t, b.Deductions, 2)
	assert.Len(t, b.Bonuses, 3)

	// thresholds are strict
	form.Controls = strings.Repeat("c", 500)
	assert.Equal(t, 100-25-10+10, scoring.Default().Score(form, sugs))
}

func TestScore_TraumaCentreBonus(t *testing.T) {
	sugs := []domain.Suggestion{{Severity: domain.SeverityHigh}}
	form := domain.FormSnapshot{EmergencyContacts: "Nearest A&E: Royal London Hospital (Major Trauma Centre), Whitechapel Road."}

	b := scoring.Default().Breakdown(form, sugs)
	assert.Equal(t, 100-25+3, b.Score)
	require.Len(t, b.Bonuses, 1)
	assert.Equal(t, "trauma_centre", b.Bonuses[0].Name)

	form.EmergencyContacts = "Nearest A&E: Northfield General, Station Road."
	assert.Equal(t, 75, scoring.Default().Score(form, sugs))
}

func TestScore_CustomWeights(t *testing.T) {
	calc := scoring.New(domain.ScoringConfig{
		Weights: domain.SeverityWeights{Critical: 25, High: 20, Medium: 8, Low: 3},
	})
	sugs := []domain.Suggestion{{Severity: domain.SeverityHigh}, {Severity: domain.SeverityLow}}
	assert.Equal(t, 77, calc.Score(domain.FormSnapshot{ReviewedBy: "ignored, bonus disabled"}, sugs))
}

func TestScore_WorkingAtHeightScenario(t *testing.T) {
	form := loadForm(t, "working_at_height.json")
	sugs := rules.Evaluate(form, []domain.Regulation{domain.RegulationWorkingAtHeight})
	assert.Equal(t, 75, scoring.Default().Score(form, sugs))
}

func TestScore_WorkingAtHeightAllRegulations(t *testing.T) {
	form := loadForm(t, "working_at_height.json")
	sugs := rules.Evaluate(form, nil)

	got := map[string]bool{}
	for _, s := range sugs {
		got[s.ID] = true
	}
	assert.True(t, got["WAH-001"])
	assert.True(t, got["CDM-007"], "presence rules stay on by default")
	assert.Equal(t, 0, scoring.Default().Score(form, sugs))
}

func TestScore_CompleteFormScores100(t *testing.T) {
	form := loadForm(t, "complete.json")
	sugs := rules.Evaluate(form, nil)
	assert.Equal(t, 100, scoring.Default().Score(form, sugs))
}

func TestScore_CompleteFormWithoutReportingRoute(t *testing.T) {
	form := loadForm(t, "complete.json")
	form.EmergencyContacts = "Emergency services: 999. Site Manager: Priya Shah 07700 900123. " +
		"First aider: Tom Reid 07700 900456. Nearest hospital: Northfield General, Station Road, " +
		"signposted from the site entrance and shown on the induction map."

	sugs := rules.Evaluate(form, nil)
	require.Len(t, sugs, 1)
	assert.Equal(t, "RIDDOR-001", sugs[0].ID)
	assert.Equal(t, 90, scoring.Default().Score(form, sugs))
}

func TestFloor_EqualsEmptyFormScore(t *testing.T) {
	calc := scoring.Default()

	for _, regs := range [][]domain.Regulation{
		nil,
		{domain.RegulationCDM},
		{domain.RegulationCOSHH, domain.RegulationPPE},
	} {
		enabled := rules.Default().Enabled(regs)
		got := calc.Score(domain.FormSnapshot{}, rules.Evaluate(domain.FormSnapshot{}, regs))
		assert.Equal(t, calc.Floor(enabled), got, "regs %v", regs)
	}

	// CDM required sections: 25+25+10+25+25+25+25+40 = 200 deducted, clamped to 0
	assert.Equal(t, 0, calc.Floor(rules.Default().All()))

	// a lenient weighting keeps the floor above zero, so every required section is counted
	lenient := scoring.New(domain.ScoringConfig{Weights: domain.SeverityWeights{Critical: 10, High: 10, Medium: 5, Low: 1}})
	cdm := rules.Default().Enabled([]domain.Regulation{domain.RegulationCDM})
	assert.Equal(t, 100-6*10-5-10, lenient.Floor(cdm))
	assert.Equal(t, lenient.Floor(cdm), lenient.Score(domain.FormSnapshot{}, rules.Evaluate(domain.FormSnapshot{}, []domain.Regulation{domain.RegulationCDM})))

	// with no presence checks enabled, the floor is the ceiling
	assert.Equal(t, 100, calc.Floor(rules.Default().Enabled([]domain.Regulation{domain.RegulationPPE})))
}
