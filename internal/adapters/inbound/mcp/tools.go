package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/Hannlytics/rams-generator/internal/domain"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools registers all RAMS MCP tools on the given server.
func registerTools(s *server.MCPServer, svc *application.Services) {
	// 1. rams_validate
	s.AddTool(
		mcplib.NewTool("rams_validate",
			mcplib.WithDescription("Validate a RAMS form against UK health and safety rules and return the compliance score and suggestions"),
			mcplib.WithString("form", mcplib.Required(), mcplib.Description("The RAMS form as a JSON object")),
			mcplib.WithNumber("step", mcplib.Description("Form step 1-5 to validate; 0 or omitted validates the whole form")),
			mcplib.WithString("regulations", mcplib.Description("Comma-separated regulation tags to enforce (default: all)")),
			mcplib.WithBoolean("use_ai", mcplib.Description("Merge AI suggestions when a provider is configured")),
		),
		handleValidate(svc),
	)

	// 2. rams_list_rules
	s.AddTool(
		mcplib.NewTool("rams_list_rules",
			mcplib.WithDescription("List the compliance rules, optionally filtered by regulation"),
			mcplib.WithString("regulation", mcplib.Description("Only list rules for this regulation tag")),
		),
		handleListRules(svc),
	)

	// 3. rams_auto_fix
	s.AddTool(
		mcplib.NewTool("rams_auto_fix",
			mcplib.WithDescription("Apply rule auto-fixes to a RAMS form and return the updated form, the score change and any manual instructions"),
			mcplib.WithString("form", mcplib.Required(), mcplib.Description("The RAMS form as a JSON object")),
			mcplib.WithString("rules", mcplib.Description("Comma-separated rule IDs to fix (default: every fixable finding)")),
			mcplib.WithBoolean("dry_run", mcplib.Description("Show the plan without returning a fixed form")),
		),
		handleAutoFix(svc),
	)

	// 4. rams_export
	s.AddTool(
		mcplib.NewTool("rams_export",
			mcplib.WithDescription("Render a RAMS form as a PDF or Word document, returned as a base64 data URI"),
			mcplib.WithString("form", mcplib.Required(), mcplib.Description("The RAMS form as a JSON object")),
			mcplib.WithString("format", mcplib.Description("pdf or docx (default: pdf)")),
		),
		handleExport(svc),
	)

	// 5. rams_competency
	s.AddTool(
		mcplib.NewTool("rams_competency",
			mcplib.WithDescription("Score the competency questionnaire. Omit answers to get the questions"),
			mcplib.WithString("answers", mcplib.Description("JSON object mapping question ID to the chosen answer")),
		),
		handleCompetency(),
	)

	// 6. rams_draft
	s.AddTool(
		mcplib.NewTool("rams_draft",
			mcplib.WithDescription("Draft a RAMS form from a job description using the configured AI provider"),
			mcplib.WithString("prompt", mcplib.Required(), mcplib.Description("Free-text description of the job")),
		),
		handleDraft(svc),
	)
}

func handleValidate(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		form, err := requireForm(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		req := domain.ValidateRequest{Form: form, UseAI: svc.Advisor.Enabled()}

		if v, ok := args["step"].(float64); ok {
			req.Step = domain.FormStep(v)
			if !req.Step.Valid() {
				return errorResult("step must be between 1 and 5"), nil
			}
		}
		if v, ok := args["use_ai"].(bool); ok {
			req.UseAI = v && req.UseAI
		}
		if v, _ := args["regulations"].(string); v != "" {
			regs, err := domain.ParseRegulations(splitList(v))
			if err != nil {
				return errorResult(err.Error()), nil
			}
			req.Regulations = regs
		}

		report, err := svc.Validate.Validate(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleListRules(svc *application.Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		infos := svc.Rules.Registry().Infos()

		tag, _ := request.GetArguments()["regulation"].(string)
		if tag == "" {
			return jsonResult(infos)
		}
		reg, err := domain.ParseRegulation(tag)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(rulesFor(infos, reg))
	}
}

func handleAutoFix(svc *application.Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		form, err := requireForm(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		opts := domain.FixOptions{}
		opts.DryRun, _ = args["dry_run"].(bool)
		if v, _ := args["rules"].(string); v != "" {
			opts.RuleIDs = splitList(v)
		}

		plan, err := svc.Fix.PlanFixes(form, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("auto-fix failed: %v", err)), nil
		}
		return jsonResult(plan)
	}
}

type exportResult struct {
	Filename string                `json:"filename"`
	Format   domain.DocumentFormat `json:"format"`
	DocData  string                `json:"docData"`
}

func handleExport(svc *application.Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		form, err := requireForm(request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		name, _ := request.GetArguments()["format"].(string)
		if name == "" {
			name = string(domain.FormatPDF)
		}
		format, err := domain.ParseDocumentFormat(name)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		doc, err := svc.Export.Export(form, format)
		if err != nil {
			return errorResult(fmt.Sprintf("export failed: %v", err)), nil
		}
		return jsonResult(exportResult{Filename: doc.Filename, Format: doc.Format, DocData: doc.DataURI()})
	}
}

type questionnaire struct {
	Questions []domain.CompetencyQuestion `json:"questions"`
	PassMark  int                         `json:"passMark"`
}

func handleCompetency() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, _ := request.GetArguments()["answers"].(string)
		if strings.TrimSpace(raw) == "" {
			return jsonResult(questionnaire{Questions: domain.CompetencyQuestions, PassMark: domain.CompetencyPassMark})
		}

		var answers map[string]string
		if err := json.Unmarshal([]byte(raw), &answers); err != nil {
			return errorResult(fmt.Sprintf("answers must be a JSON object: %v", err)), nil
		}
		result, err := domain.AssessCompetency(answers)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func handleDraft(svc *application.Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		brief, err := request.RequireString("prompt")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		draft, err := svc.Advisor.Draft(ctx, brief)
		if err != nil {
			return errorResult(fmt.Sprintf("draft failed: %v", err)), nil
		}
		return jsonResult(draft)
	}
}

// requireForm decodes the "form" argument. Clients may send the form as a
// JSON string or as a nested object.
func requireForm(request mcplib.CallToolRequest) (domain.FormSnapshot, error) {
	var form domain.FormSnapshot

	raw, ok := request.GetArguments()["form"]
	if !ok || raw == nil {
		return form, fmt.Errorf("form is required")
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return form, fmt.Errorf("form: %w", err)
		}
		data = b
	}

	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("form is not valid JSON: %w", err)
	}
	if err := form.Validate(); err != nil {
		return form, err
	}
	return form, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// jsonResult marshals v to indented JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
