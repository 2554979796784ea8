package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"testcase_generator/internal/model"
)

// Generator produces test cases from a user story
type Generator interface {
	Generate(ctx context.Context, userStory, acceptanceCriteria string) ([]model.TestCase, error)
}

// TicketCreator files one ticket in Jira
type TicketCreator interface {
	CreateTicket(ctx context.Context, req model.TicketRequest) (*model.Ticket, error)
}

// NewServer creates a new MCP server instance exposing the test case tools
func NewServer(name, version string, gen Generator, tickets TicketCreator) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registerTools(s, &tools{generator: gen, tickets: tickets})
	return s
}

// Serve runs the server over stdin/stdout until the input is closed
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
