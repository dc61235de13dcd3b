package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/render"
	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServices() *application.Services {
	return application.NewServices(domain.DefaultConfig(), nil, nil, render.NewPDFRenderer(), render.NewDOCXRenderer())
}

func call(t *testing.T, handler func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (*mcplib.CallToolResult, string) {
	t.Helper()
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestHandleValidate_EmptyForm(t *testing.T) {
	res, text := call(t, handleValidate(testServices()), map[string]any{"form": "{}"})
	require.False(t, res.IsError, text)

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, 0, report.ComplianceScore)
	assert.Len(t, report.Suggestions, 8)
}

func TestHandleValidate_FormAsObject(t *testing.T) {
	args := map[string]any{
		"form": map[string]any{
			"selectedHazards": []any{"Working at Height"},
		},
		"regulations": "working-at-height",
	}
	res, text := call(t, handleValidate(testServices()), args)
	require.False(t, res.IsError, text)

	var report domain.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, 75, report.ComplianceScore)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, domain.FieldControls, report.Suggestions[0].Field)
}

func TestHandleValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing form", map[string]any{}, "form is required"},
		{"bad json", map[string]any{"form": "{"}, "not valid JSON"},
		{"unknown hazard", map[string]any{"form": `{"selectedHazards":["Sharks"]}`}, "unknown hazard"},
		{"bad step", map[string]any{"form": "{}", "step": float64(7)}, "step must be"},
		{"bad regulation", map[string]any{"form": "{}", "regulations": "LOLER"}, "unknown regulation"},
	}
	h := handleValidate(testServices())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, text := call(t, h, tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestHandleListRules(t *testing.T) {
	svc := testServices()

	_, text := call(t, handleListRules(svc), map[string]any{})
	var all []rules.Info
	require.NoError(t, json.Unmarshal([]byte(text), &all))
	assert.Len(t, all, svc.Rules.Registry().Len())

	_, text = call(t, handleListRules(svc), map[string]any{"regulation": "ppe"})
	var ppe []rules.Info
	require.NoError(t, json.Unmarshal([]byte(text), &ppe))
	require.NotEmpty(t, ppe)
	for _, info := range ppe {
		assert.Equal(t, domain.RegulationPPE, info.Regulation)
	}

	res, _ := call(t, handleListRules(svc), map[string]any{"regulation": "LOLER"})
	assert.True(t, res.IsError)
}

func TestHandleAutoFix(t *testing.T) {
	args := map[string]any{"form": `{"selectedHazards":["Working at Height"]}`}
	res, text := call(t, handleAutoFix(testServices()), args)
	require.False(t, res.IsError, text)

	var plan domain.FixPlan
	require.NoError(t, json.Unmarshal([]byte(text), &plan))
	assert.Greater(t, plan.ScoreAfter, plan.ScoreBefore)
	require.NotNil(t, plan.Form)
	assert.Contains(t, plan.Form.Controls, "Edge protection")
}

func TestHandleAutoFix_DryRunAndRules(t *testing.T) {
	args := map[string]any{
		"form":    `{"selectedHazards":["Working at Height"]}`,
		"rules":   "WAH-001",
		"dry_run": true,
	}
	res, text := call(t, handleAutoFix(testServices()), args)
	require.False(t, res.IsError, text)

	var plan domain.FixPlan
	require.NoError(t, json.Unmarshal([]byte(text), &plan))
	require.Len(t, plan.Applied, 1)
	assert.Equal(t, "WAH-001", plan.Applied[0].RuleID)
	assert.Nil(t, plan.Form)
}

func TestHandleExport(t *testing.T) {
	tests := []struct {
		format string
		prefix string
		ext    string
	}{
		{"", "data:application/pdf;base64,", ".pdf"},
		{"docx", "data:" + domain.FormatDOCX.MIMEType() + ";base64,", ".docx"},
	}
	h := handleExport(testServices())
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			res, text := call(t, h, map[string]any{"form": `{"projectName":"Roof Repair"}`, "format": tt.format})
			require.False(t, res.IsError, text)

			var out exportResult
			require.NoError(t, json.Unmarshal([]byte(text), &out))
			assert.True(t, strings.HasPrefix(out.Filename, "RAMS_Roof_Repair_"))
			assert.True(t, strings.HasSuffix(out.Filename, tt.ext))
			assert.True(t, strings.HasPrefix(out.DocData, tt.prefix))
		})
	}

	res, text := call(t, h, map[string]any{"form": "{}", "format": "odt"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "odt")
}

func TestHandleCompetency(t *testing.T) {
	h := handleCompetency()

	_, text := call(t, h, map[string]any{})
	var q questionnaire
	require.NoError(t, json.Unmarshal([]byte(text), &q))
	assert.Len(t, q.Questions, len(domain.CompetencyQuestions))
	assert.Equal(t, domain.CompetencyPassMark, q.PassMark)

	answers := map[string]string{}
	for _, question := range domain.CompetencyQuestions {
		answers[question.ID] = question.Options[len(question.Options)-1]
	}
	raw, err := json.Marshal(answers)
	require.NoError(t, err)

	res, text := call(t, h, map[string]any{"answers": string(raw)})
	require.False(t, res.IsError, text)
	var result domain.CompetencyResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, 3, result.Score)
	assert.False(t, result.Verified)

	res, text = call(t, h, map[string]any{"answers": `{"cdm_knowledge":"Somewhat familiar"}`})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not answered")
}

func TestHandleDraft_NoProvider(t *testing.T) {
	res, text := call(t, handleDraft(testServices()), map[string]any{"prompt": "re-roof a garage"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "draft failed")
}

func TestRegulationResource(t *testing.T) {
	svc := testServices()
	req := mcplib.ReadResourceRequest{}
	req.Params.URI = "rams://regulations/coshh"
	req.Params.Arguments = map[string]any{"tag": "coshh"}

	contents, err := handleRegulationResource(svc)(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcplib.TextResourceContents)
	assert.Equal(t, "application/json", text.MIMEType)
	var infos []rules.Info
	require.NoError(t, json.Unmarshal([]byte(text.Text), &infos))
	require.NotEmpty(t, infos)
	for _, info := range infos {
		assert.Equal(t, domain.RegulationCOSHH, info.Regulation)
	}

	req.Params.Arguments = map[string]any{"tag": "LOLER"}
	_, err = handleRegulationResource(svc)(context.Background(), req)
	assert.Error(t, err)
}

func TestDisclaimerResource(t *testing.T) {
	req := mcplib.ReadResourceRequest{}
	req.Params.URI = "rams://disclaimer"
	contents, err := handleDisclaimerResource()(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.LegalDisclaimer, contents[0].(mcplib.TextResourceContents).Text)
}
