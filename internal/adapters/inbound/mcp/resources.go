package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerResources registers all RAMS MCP resources on the given server.
func registerResources(s *server.MCPServer, svc *application.Services) {
	// 1. rams://rules - every compliance rule
	s.AddResource(
		mcplib.NewResource(
			"rams://rules",
			"Compliance Rules",
			mcplib.WithResourceDescription("Every RAMS compliance rule with its regulation, severity and auto-fix support"),
			mcplib.WithMIMEType("application/json"),
		),
		handleRulesResource(svc),
	)

	// 2. rams://disclaimer - legal disclaimer printed on exports
	s.AddResource(
		mcplib.NewResource(
			"rams://disclaimer",
			"Legal Disclaimer",
			mcplib.WithResourceDescription("The disclaimer printed on every exported RAMS document"),
			mcplib.WithMIMEType("text/plain"),
		),
		handleDisclaimerResource(),
	)

	// 3. rams://regulations/{tag} - rules for one regulation
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"rams://regulations/{tag}",
			"Regulation Rules",
			mcplib.WithTemplateDescription("Compliance rules for a single regulation"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleRegulationResource(svc),
	)
}

func handleRulesResource(svc *application.Services) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonResource(request.Params.URI, svc.Rules.Registry().Infos())
	}
}

func handleDisclaimerResource() server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "text/plain",
				Text:     domain.LegalDisclaimer,
			},
		}, nil
	}
}

func handleRegulationResource(svc *application.Services) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		// Populated by template matching; may arrive as a string or a one-element list.
		var tag string
		switch v := request.Params.Arguments["tag"].(type) {
		case string:
			tag = v
		case []string:
			if len(v) > 0 {
				tag = v[0]
			}
		}
		if tag == "" {
			return nil, fmt.Errorf("regulation tag is required")
		}

		reg, err := domain.ParseRegulation(tag)
		if err != nil {
			return nil, err
		}
		return jsonResource(request.Params.URI, rulesFor(svc.Rules.Registry().Infos(), reg))
	}
}

func rulesFor(infos []rules.Info, reg domain.Regulation) []rules.Info {
	out := []rules.Info{}
	for _, info := range infos {
		if info.Regulation == reg {
			out = append(out, info)
		}
	}
	return out
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
