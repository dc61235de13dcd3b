package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSnapshot_JSONUsesCamelCase(t *testing.T) {
	raw := `{
		"projectName": "Roof repair",
		"methodStatement": "Erect scaffold",
		"selectedHazards": ["Working at Height"],
		"selectedPPE": ["Hard Hat"],
		"competentPersonVerified": true
	}`

	var f domain.FormSnapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &f))

	assert.Equal(t, "Roof repair", f.ProjectName)
	assert.Equal(t, "Erect scaffold", f.MethodStatement)
	assert.True(t, f.HasHazard(domain.HazardWorkingAtHeight))
	assert.True(t, f.HasPPE(domain.PPEHardHat))
	assert.True(t, f.CompetentPersonVerified)
}

func TestFormSnapshot_Validate(t *testing.T) {
	ok := domain.FormSnapshot{
		SelectedHazards: []domain.Hazard{domain.HazardElectrical},
		SelectedPPE:     []domain.PPE{domain.PPEGloves},
	}
	assert.NoError(t, ok.Validate())

	badHazard := domain.FormSnapshot{SelectedHazards: []domain.Hazard{"Sharks"}}
	err := badHazard.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidForm)
	assert.Contains(t, err.Error(), "Sharks")

	badPPE := domain.FormSnapshot{SelectedPPE: []domain.PPE{"Cape"}}
	assert.ErrorIs(t, badPPE.Validate(), domain.ErrInvalidForm)
}

func TestFormSnapshot_Text(t *testing.T) {
	f := domain.FormSnapshot{
		Controls:        "Barriers erected",
		SelectedHazards: []domain.Hazard{domain.HazardElectrical, domain.HazardDust},
	}
	assert.Equal(t, "Barriers erected", f.Text(domain.FieldControls))
	assert.Equal(t, "Electrical, Dust / Airborne Particles", f.Text(domain.FieldSelectedHazards))
	assert.Empty(t, f.Text("nope"))
	assert.Empty(t, f.Text(domain.FieldAcknowledgement))
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		field string
		label string
	}{
		{domain.FieldMethodStatement, "Method Statement"},
		{domain.FieldFirstAidArrangements, "First Aid Arrangements"},
		{domain.FieldSelectedPPE, "Selected PPE"},
		{domain.FieldTrade, "Trade"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, domain.FieldLabel(tt.field), tt.field)
	}
}

func TestFields_CoverEveryStep(t *testing.T) {
	fields := domain.Fields()
	assert.Len(t, fields, 32)

	steps := map[domain.FormStep]int{}
	for _, f := range fields {
		steps[f.Step]++
	}
	for s := domain.StepProject; s <= domain.StepSignOff; s++ {
		assert.Positive(t, steps[s], "step %d has no fields", s)
	}

	info, ok := domain.LookupField(domain.FieldControls)
	require.True(t, ok)
	assert.Equal(t, domain.KindText, info.Kind)
	assert.Equal(t, domain.StepHazards, info.Step)
}

func TestApplyFix_TextField(t *testing.T) {
	f := domain.FormSnapshot{Controls: "old"}
	require.NoError(t, domain.ApplyFix(&f, domain.FieldControls, domain.TextFix("new controls")))
	assert.Equal(t, "new controls", f.Controls)
}

func TestApplyFix_TagsIntoTextFieldAreJoined(t *testing.T) {
	var f domain.FormSnapshot
	require.NoError(t, domain.ApplyFix(&f, domain.FieldControls, domain.TagFix("a", "b")))
	assert.Equal(t, "a\nb", f.Controls)
}

func TestApplyFix_TagField(t *testing.T) {
	var f domain.FormSnapshot
	require.NoError(t, domain.ApplyFix(&f, domain.FieldSelectedPPE, domain.TagFix("Hard Hat", "Gloves")))
	assert.Equal(t, []domain.PPE{domain.PPEHardHat, domain.PPEGloves}, f.SelectedPPE)
}

func TestApplyFix_TextIntoTagFieldIsSplit(t *testing.T) {
	var f domain.FormSnapshot
	require.NoError(t, domain.ApplyFix(&f, domain.FieldSelectedHazards, domain.TextFix("Electrical, Hot Works\nLone Working\n")))
	assert.Equal(t, []domain.Hazard{domain.HazardElectrical, domain.HazardHotWorks, domain.HazardLoneWorking}, f.SelectedHazards)
}

func TestApplyFix_IsVerbatim(t *testing.T) {
	var f domain.FormSnapshot
	require.NoError(t, domain.ApplyFix(&f, domain.FieldSelectedPPE, domain.TagFix("Unicorn Horn")))
	assert.Equal(t, []domain.PPE{"Unicorn Horn"}, f.SelectedPPE)
}

func TestApplyFix_Errors(t *testing.T) {
	var f domain.FormSnapshot
	assert.ErrorIs(t, domain.ApplyFix(&f, "nope", domain.TextFix("x")), domain.ErrUnknownField)
	assert.ErrorIs(t, domain.ApplyFix(&f, domain.FieldAcknowledgement, domain.TextFix("true")), domain.ErrFieldNotFixable)
	assert.False(t, f.Acknowledgement)
}

func TestFormStep_Valid(t *testing.T) {
	assert.True(t, domain.FormStep(0).Valid())
	assert.True(t, domain.StepHazards.Valid())
	assert.True(t, domain.StepSignOff.Valid())
	assert.False(t, domain.FormStep(6).Valid())
	assert.False(t, domain.FormStep(-1).Valid())
}
