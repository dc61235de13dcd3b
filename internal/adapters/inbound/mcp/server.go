package mcp

import (
	"github.com/Hannlytics/rams-generator/internal/application"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name advertised during the MCP handshake.
const ServerName = "rams-generator"

// NewRAMSMCPServer creates an MCP server with every RAMS tool and resource
// registered against svc.
func NewRAMSMCPServer(svc *application.Services, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
