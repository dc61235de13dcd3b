package httpapi_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Hannlytics/rams-generator/internal/adapters/inbound/httpapi"
	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/render"
	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) CompleteWithSystem(context.Context, string, string) (string, error) {
	return f.reply, f.err
}

func newServer(t *testing.T, llm domain.LLMClient) http.Handler {
	t.Helper()
	return newServerWithConfig(t, domain.DefaultConfig(), llm)
}

func newServerWithConfig(t *testing.T, cfg domain.Config, llm domain.LLMClient) http.Handler {
	t.Helper()
	svc := application.NewServices(cfg, llm, nil, render.NewPDFRenderer(), render.NewDOCXRenderer())
	return httpapi.New(svc, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestValidateStep_EmptyForm(t *testing.T) {
	rec, out := do(t, newServer(t, nil), http.MethodPost, "/api/validate-step", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Len(t, out["suggestions"], 8)
	assert.EqualValues(t, 0, out["complianceScore"])
	assert.Equal(t, "F", out["grade"])
	assert.Equal(t, domain.LegalDisclaimer, out["disclaimer"])

	ai := out["ai"].(map[string]any)
	assert.Equal(t, "disabled", ai["status"])
	assert.NotEmpty(t, rec.Header().Get(httpapi.RequestIDHeader))
}

func TestValidateStep_WorkingAtHeightScenario(t *testing.T) {
	body := `{"selectedHazards":["Working at Height"],"controls":"","regulations":["working-at-height"]}`
	rec, out := do(t, newServer(t, nil), http.MethodPost, "/api/validate-step", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 75, out["complianceScore"])
	sugs := out["suggestions"].([]any)
	require.Len(t, sugs, 1)
	s := sugs[0].(map[string]any)
	assert.Equal(t, "controls", s["field"])
	assert.Equal(t, "high", s["severity"])
	assert.Contains(t, s["message"], "scaffold")
	assert.NotEmpty(t, s["autoFixContent"])
}

func TestValidateStep_AIFailureStillSucceeds(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	rec, out := do(t, newServer(t, llm), http.MethodPost, "/api/validate-step", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["suggestions"], 8)
	ai := out["ai"].(map[string]any)
	assert.Equal(t, "degraded", ai["status"])
	assert.NotEmpty(t, ai["notices"])
	assert.Equal(t, false, out["metadata"].(map[string]any)["aiPowered"])
}

func TestValidateStep_AIOptOut(t *testing.T) {
	llm := &fakeLLM{reply: `[{"field":"controls","severity":"low","message":"Add more detail"}]`}
	_, out := do(t, newServer(t, llm), http.MethodPost, "/api/validate-step", `{"useAI":false}`)
	assert.Equal(t, "disabled", out["ai"].(map[string]any)["status"])

	_, out = do(t, newServer(t, llm), http.MethodPost, "/api/validate-step", `{}`)
	assert.Equal(t, "ok", out["ai"].(map[string]any)["status"])
	assert.Len(t, out["suggestions"], 9)
}

func TestValidateStep_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"projectName":`, "malformed JSON"},
		{"empty body", ``, "malformed JSON"},
		{"unknown hazard", `{"selectedHazards":["Sharks"]}`, "unknown hazard"},
		{"unknown ppe", `{"selectedPPE":["Cape"]}`, "unknown PPE"},
		{"bad step", `{"step":9}`, "step must be"},
		{"unknown regulation", `{"regulations":["LOLER"]}`, "unknown regulation"},
	}
	h := newServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, "/api/validate-step", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, out["success"])
			assert.Contains(t, out["error"], tt.want)
		})
	}
}

func TestValidateStep_BodyTooLarge(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Server.MaxBodyBytes = 64
	h := newServerWithConfig(t, cfg, nil)

	body := `{"scopeOfWork":"` + strings.Repeat("x", 200) + `"}`
	rec, _ := do(t, h, http.MethodPost, "/api/validate-step", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidateStep_WrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/validate-step", nil)
	rec := httptest.NewRecorder()
	newServer(t, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID_IsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpapi.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newServer(t, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(httpapi.RequestIDHeader))
}

func TestAutoFix_ByRule(t *testing.T) {
	body := `{"form":{"selectedHazards":["Working at Height"]},"ruleId":"WAH-001"}`
	rec, out := do(t, newServer(t, nil), http.MethodPost, "/api/auto-fix", body)

	require.Equal(t, http.StatusOK, rec.Code)
	form := out["form"].(map[string]any)
	assert.Contains(t, form["controls"], "Edge protection")
	applied := out["applied"].([]any)
	require.Len(t, applied, 1)
	assert.Equal(t, "WAH-001", applied[0].(map[string]any)["rule_id"])

	report := out["report"].(map[string]any)
	for _, s := range report["suggestions"].([]any) {
		assert.NotEqual(t, "WAH-001", s.(map[string]any)["id"])
	}
}

func TestAutoFix_FieldContent(t *testing.T) {
	body := `{"form":{},"field":"selectedPPE","content":["Hard Hat","Gloves"]}`
	rec, out := do(t, newServer(t, nil), http.MethodPost, "/api/auto-fix", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Hard Hat", "Gloves"}, out["form"].(map[string]any)["selectedPPE"])
}

func TestAutoFix_All(t *testing.T) {
	body := `{"form":{"selectedHazards":["Working at Height"]},"all":true}`
	rec, out := do(t, newServer(t, nil), http.MethodPost, "/api/auto-fix", body)

	require.Equal(t, http.StatusOK, rec.Code)
	plan := out["plan"].(map[string]any)
	assert.Greater(t, plan["score_after"].(float64), plan["score_before"].(float64))
	assert.NotEmpty(t, out["applied"])
}

func TestAutoFix_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown rule", `{"form":{},"ruleId":"NOPE-1"}`, http.StatusBadRequest},
		{"unknown field", `{"form":{},"field":"colour","content":"red"}`, http.StatusBadRequest},
		{"not fixable", `{"form":{},"field":"acknowledgement","content":"yes"}`, http.StatusBadRequest},
		{"nothing selected", `{"form":{}}`, http.StatusUnprocessableEntity},
		{"satisfied rule", `{"form":{},"ruleId":"WAH-001"}`, http.StatusUnprocessableEntity},
	}
	h := newServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, "/api/auto-fix", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, out["success"])
		})
	}
}

func TestGPTValidate_FallbackIsStill200(t *testing.T) {
	rec, out := do(t, newServer(t, &fakeLLM{err: errors.New("boom")}), http.MethodPost, "/api/gpt-validate", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 75, out["languageScore"])
	assert.EqualValues(t, 75, out["toneScore"])
	assert.EqualValues(t, 65, out["completenessScore"])
	assert.Equal(t, "degraded", out["status"])
}

func TestGPTValidate_OK(t *testing.T) {
	llm := &fakeLLM{reply: `{"languageScore":88,"toneScore":90,"completenessScore":70,"suggestions":["Add a rescue plan"]}`}
	rec, out := do(t, newServer(t, llm), http.MethodPost, "/api/gpt-validate", `{"projectName":"Roof"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 88, out["languageScore"])
	assert.Equal(t, []any{"Add a rescue plan"}, out["suggestions"])
}

func TestCopilotGenerate(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n" +
		`{"projectName":"Loft conversion","selectedHazards":["Working at Height","Unicorns"],"specialConsiderations":"Asbestos survey required"}` +
		"\n```"}
	rec, out := do(t, newServer(t, llm), http.MethodPost, "/api/copilot-generate", `{"prompt":"Loft conversion in a 1930s semi"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	data := out["formData"].(map[string]any)
	assert.Equal(t, "Loft conversion", data["projectName"])
	assert.Equal(t, []any{"Working at Height"}, data["selectedHazards"])
	assert.Equal(t, "Special considerations: Asbestos survey required", data["customHazards"])
	assert.Equal(t, true, data["aiGenerated"])
	assert.Equal(t, domain.DraftDisclaimer, data["disclaimer"])
	assert.NotEmpty(t, data["id"])
}

func TestCopilotGenerate_Errors(t *testing.T) {
	rec, out := do(t, newServer(t, &fakeLLM{}), http.MethodPost, "/api/copilot-generate", `{"prompt":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["success"])

	rec, _ = do(t, newServer(t, nil), http.MethodPost, "/api/copilot-generate", `{"prompt":"roof"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, _ = do(t, newServer(t, &fakeLLM{reply: "sorry, I cannot help"}), http.MethodPost, "/api/copilot-generate", `{"prompt":"roof"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGenerateDocuments(t *testing.T) {
	tests := []struct {
		path   string
		mime   string
		ext    string
		magic  string
		result string
	}{
		{"/api/generate-rams-pdf", "application/pdf", ".pdf", "%PDF", "PDF document generated successfully"},
		{"/api/generate-rams-word", domain.FormatDOCX.MIMEType(), ".docx", "PK", "Word document generated successfully"},
	}
	h := newServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, tt.path, `{"projectName":"Roof Repair","selectedHazards":["Electrical"]}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.result, out["message"])

			filename := out["filename"].(string)
			assert.True(t, strings.HasPrefix(filename, "RAMS_Roof_Repair_"), filename)
			assert.True(t, strings.HasSuffix(filename, tt.ext), filename)

			uri := out["docData"].(string)
			prefix := "data:" + tt.mime + ";base64,"
			require.True(t, strings.HasPrefix(uri, prefix))
			data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(tt.magic)))
		})
	}
}

func TestGenerateDocuments_InvalidForm(t *testing.T) {
	rec, out := do(t, newServer(t, nil), http.MethodPost, "/api/generate-rams-word", `{"selectedPPE":["Cape"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, out["docData"])
}

func TestCompetency(t *testing.T) {
	h := newServer(t, nil)

	rec, out := do(t, h, http.MethodGet, "/api/competency", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["questions"], len(domain.CompetencyQuestions))

	answers := map[string]string{}
	for _, q := range domain.CompetencyQuestions {
		answers[q.ID] = q.Options[0]
	}
	body, err := json.Marshal(map[string]any{"answers": answers})
	require.NoError(t, err)

	rec, out = do(t, h, http.MethodPost, "/api/competency", string(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 9, out["score"])
	assert.Equal(t, true, out["verified"])

	rec, out = do(t, h, http.MethodPost, "/api/competency", `{"answers":{"cdm_knowledge":"Somewhat familiar"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "not answered")
}

func TestRulesAndHealth(t *testing.T) {
	h := newServer(t, nil)

	rec, out := do(t, h, http.MethodGet, "/api/rules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["rules"], rules.Default().Len())
	assert.Len(t, out["fields"], len(domain.Fields()))

	rec, out = do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, false, out["ai"])
}

func TestServe_GracefulShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	svc := application.NewServices(domain.DefaultConfig(), nil, nil)
	srv := httpapi.New(svc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
