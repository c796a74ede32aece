// Package mcp exposes read-only onboarding tools to the console's assistant
// integration. The tools only inspect state; every mutation goes through the
// REST API.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/workflow"
)

type Server struct {
	mcpServer *server.MCPServer
	workflow  *workflow.Service
}

func NewServer(wf *workflow.Service) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"NDIS Onboarding Console",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		workflow: wf,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"participant_readiness",
			mcp.WithDescription("Check whether a participant is ready to enter the scheduling workflow"),
			mcp.WithNumber("participant_id", mcp.Required(), mcp.Description("The participant's platform id")),
		),
		s.handleParticipantReadiness,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"onboarding_run_status",
			mcp.WithDescription("Inspect the current state of an onboarding run"),
			mcp.WithString("run_id", mcp.Required(), mcp.Description("The onboarding run id")),
		),
		s.handleRunStatus,
	)
}

func (s *Server) handleParticipantReadiness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	rawID, ok := args["participant_id"].(float64)
	if !ok || rawID <= 0 {
		return mcp.NewToolResultError("Missing required parameter: participant_id"), nil
	}

	participant, err := s.workflow.Lookup(ctx, int(rawID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch participant: %v", err)), nil
	}

	result := map[string]interface{}{
		"participant_id":   participant.ID,
		"name":             participant.FullName(),
		"status":           participant.Status,
		"ready":            participant.IsWorkflowReady(),
		"gaps":             participant.ReadinessGaps(),
		"disability_type":  participant.DisabilityType,
		"support_category": participant.SupportCategory,
	}
	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRunStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	runID, ok := args["run_id"].(string)
	if !ok || runID == "" {
		return mcp.NewToolResultError("Missing required parameter: run_id"), nil
	}

	run, err := s.workflow.Get(runID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch run: %v", err)), nil
	}

	result := map[string]interface{}{
		"run_id":                run.ID,
		"participant_id":        run.ParticipantID,
		"step":                  run.Step,
		"assignments":           len(run.Assignments),
		"schedule_entries":      len(run.Schedule),
		"status_update_pending": run.StatusUpdatePending,
		"last_error":            run.LastError,
	}
	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
