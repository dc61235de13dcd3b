package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"go.uber.org/zap"
)

// ── validate-step ──

type validateStepRequest struct {
	domain.FormSnapshot
	Step        domain.FormStep `json:"step,omitempty"`
	Regulations []string        `json:"regulations,omitempty"`
	UseAI       *bool           `json:"useAI,omitempty"`
}

type validateResponse struct {
	Success bool `json:"success"`
	*domain.ValidationReport
	Disclaimer string `json:"disclaimer"`
}

func (s *Server) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	var req validateStepRequest
	if err := decode(r, &req); err != nil {
		fail(w, err, "")
		return
	}
	if !req.Step.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("step must be between 1 and %d", domain.StepSignOff))
		return
	}
	regs, err := domain.ParseRegulations(req.Regulations)
	if err != nil {
		fail(w, err, "")
		return
	}

	// AI runs whenever a provider is configured unless the caller opts out
	useAI := s.svc.Advisor.Enabled()
	if req.UseAI != nil {
		useAI = *req.UseAI
	}

	report, err := s.svc.Validate.Validate(r.Context(), domain.ValidateRequest{
		Form: req.FormSnapshot, Step: req.Step, Regulations: regs, UseAI: useAI,
	})
	if err != nil {
		fail(w, err, "Validation failed")
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Success: true, ValidationReport: report, Disclaimer: domain.LegalDisclaimer})
}

// ── auto-fix ──

type autoFixRequest struct {
	application.FixRequest
	All     bool     `json:"all,omitempty"`
	DryRun  bool     `json:"dryRun,omitempty"`
	RuleIDs []string `json:"ruleIds,omitempty"`
}

type autoFixResponse struct {
	Success bool                     `json:"success"`
	Form    domain.FormSnapshot      `json:"form"`
	Applied []domain.AppliedFix      `json:"applied"`
	Plan    *domain.FixPlan          `json:"plan,omitempty"`
	Report  *domain.ValidationReport `json:"report"`
}

func (s *Server) handleAutoFix(w http.ResponseWriter, r *http.Request) {
	var req autoFixRequest
	if err := decode(r, &req); err != nil {
		fail(w, err, "")
		return
	}

	resp := autoFixResponse{Success: true}
	if req.All || len(req.RuleIDs) > 0 {
		plan, err := s.svc.Fix.PlanFixes(req.Form, domain.FixOptions{DryRun: req.DryRun, RuleIDs: req.RuleIDs})
		if err != nil {
			fail(w, err, "Auto-fix failed")
			return
		}
		resp.Plan, resp.Applied, resp.Form = plan, plan.Applied, req.Form
		if plan.Form != nil {
			resp.Form = *plan.Form
		}
	} else {
		form, applied, err := s.svc.Fix.ApplySuggestion(req.FixRequest)
		if err != nil {
			fail(w, err, "Auto-fix failed")
			return
		}
		resp.Form, resp.Applied = form, []domain.AppliedFix{applied}
	}

	report, err := s.svc.Validate.Validate(r.Context(), domain.ValidateRequest{Form: resp.Form})
	if err != nil {
		fail(w, err, "Validation failed")
		return
	}
	resp.Report = report
	writeJSON(w, http.StatusOK, resp)
}

// ── gpt-validate ──

// handleGPTValidate answers 200 with fallback scores whenever the model is
// unavailable; only a malformed body is an error.
func (s *Server) handleGPTValidate(w http.ResponseWriter, r *http.Request) {
	var form domain.FormSnapshot
	if err := decode(r, &form); err != nil {
		fail(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Advisor.Review(r.Context(), form))
}

// ── copilot-generate ──

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type draftData struct {
	ID string `json:"id"`
	domain.FormSnapshot
	AIGenerated bool   `json:"aiGenerated"`
	Disclaimer  string `json:"disclaimer"`
}

type generateResponse struct {
	Success  bool      `json:"success"`
	FormData draftData `json:"formData"`
}

func (s *Server) handleCopilotGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(r, &req); err != nil {
		fail(w, err, "")
		return
	}
	draft, err := s.svc.Advisor.Draft(r.Context(), req.Prompt)
	if err != nil {
		s.logger.Warn("draft failed",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err))
		fail(w, err, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		FormData: draftData{
			ID: draft.ID, FormSnapshot: draft.Form,
			AIGenerated: draft.AIGenerated, Disclaimer: draft.Disclaimer,
		},
	})
}

// ── document export ──

type exportKind struct {
	format domain.DocumentFormat
	label  string
}

var (
	wordExport = exportKind{format: domain.FormatDOCX, label: "Word document"}
	pdfExport  = exportKind{format: domain.FormatPDF, label: "PDF document"}
)

type exportResponse struct {
	Success  bool   `json:"success"`
	DocData  string `json:"docData"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

func (s *Server) handleExport(kind exportKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form domain.FormSnapshot
		if err := decode(r, &form); err != nil {
			fail(w, err, "")
			return
		}
		doc, err := s.svc.Export.Export(form, kind.format)
		if err != nil {
			fail(w, err, "Failed to generate "+kind.label)
			return
		}
		writeJSON(w, http.StatusOK, exportResponse{
			Success:  true,
			DocData:  doc.DataURI(),
			Filename: doc.Filename,
			Message:  kind.label + " generated successfully",
		})
	}
}

// ── competency ──

type competencyRequest struct {
	Answers map[string]string `json:"answers"`
}

func (s *Server) handleCompetencyQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": domain.CompetencyQuestions,
		"passMark":  domain.CompetencyPassMark,
	})
}

func (s *Server) handleCompetency(w http.ResponseWriter, r *http.Request) {
	var req competencyRequest
	if err := decode(r, &req); err != nil {
		fail(w, err, "")
		return
	}
	res, err := domain.AssessCompetency(req.Answers)
	if err != nil {
		fail(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ── registry and health ──

type rulesResponse struct {
	Rules  []rules.Info       `json:"rules"`
	Fields []domain.FieldInfo `json:"fields"`
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rulesResponse{
		Rules:  s.svc.Rules.Registry().Infos(),
		Fields: domain.Fields(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ai":     s.svc.Advisor.Enabled(),
	})
}
