package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"testcase_generator/internal/model"
)

const (
	toolGenerateTestCases  = "generate_test_cases"
	toolCreateJiraTestCase = "create_jira_test_case"
)

type tools struct {
	generator Generator
	tickets   TicketCreator
}

// registerTools registers the generation and Jira tools with the server
func registerTools(s *server.MCPServer, t *tools) {
	generateTool := mcp.NewTool(toolGenerateTestCases,
		mcp.WithDescription("Generate positive and negative test cases for a user story"),
		mcp.WithString("user_story",
			mcp.Required(),
			mcp.Description("The user story to cover"),
		),
		mcp.WithString("acceptance_criteria",
			mcp.Description("Acceptance criteria of the story, one per line"),
		),
	)

	createTool := mcp.NewTool(toolCreateJiraTestCase,
		mcp.WithDescription("Create a test case ticket in Jira, optionally as a sub-task of a parent issue"),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key (e.g., 'KAN')"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Ticket summary"),
		),
		mcp.WithString("description",
			mcp.Description("Ticket description in Jira wiki markup"),
		),
		mcp.WithString("parent_key",
			mcp.Description("Parent issue key (e.g., 'KAN-100'); creates a sub-task when set"),
		),
	)

	s.AddTool(generateTool, t.handleGenerate)
	s.AddTool(createTool, t.handleCreate)
}

func (t *tools) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userStory, err := request.RequireString("user_story")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cases, err := t.generator.Generate(ctx, userStory, request.GetString("acceptance_criteria", ""))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to generate test cases", err), nil
	}

	return jsonResult(map[string]any{"test_cases": cases})
}

func (t *tools) handleCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey, err := request.RequireString("project_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := request.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ticket, err := t.tickets.CreateTicket(ctx, model.TicketRequest{
		ProjectKey:  projectKey,
		Summary:     summary,
		Description: request.GetString("description", ""),
		ParentKey:   request.GetString("parent_key", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(model.NewTicketResult(ticket, nil))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonResult, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonResult)), nil
}
