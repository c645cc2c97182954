// Package mcp exposes the editor as a Model Context Protocol server, so
// agent tooling can build and edit genograms programmatically.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/pkg/domain"
)

// ConnectResponse is the structured result of the connect and attach tools.
type ConnectResponse struct {
	OK       bool             `json:"ok" jsonschema_description:"Whether the connection was applied"`
	Decision *domain.Decision `json:"decision,omitempty" jsonschema_description:"Disambiguation request when several parent pairs qualify"`
}

// Server wraps the Editor and exposes it as an MCP Server.
type Server struct {
	editor    *kinmap.Editor
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(editor *kinmap.Editor) *Server {
	s := &Server{
		editor:    editor,
		mcpServer: server.NewMCPServer("kinmap-mcp", kinmap.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: add_person
	addPersonTool := mcp.NewTool("add_person",
		mcp.WithDescription("Add a person node to the genogram."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
		mcp.WithNumber("x", mcp.Description("Canvas X position")),
		mcp.WithNumber("y", mcp.Description("Canvas Y position")),
		mcp.WithString("gender", mcp.Description("Gender, free-form")),
		mcp.WithString("birth_date", mcp.Description("Birth date, ISO 8601")),
	)
	s.mcpServer.AddTool(addPersonTool, s.handleAddPerson)

	// TOOL: delete_person
	s.mcpServer.AddTool(mcp.NewTool("delete_person",
		mcp.WithDescription("Delete a person. Relationships touching the person and dependent child edges are removed too."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Person id")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := request.GetArguments()["id"].(string)
		if err := s.editor.DeletePerson(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText("deleted"), nil
	})

	// TOOL: connect
	connectTool := mcp.NewTool("connect",
		mcp.WithDescription("Draw a connection: partner (person to person), child (partner relationship to person), or parent (child person to parent person)."),
		mcp.WithString("origin_id", mcp.Required(), mcp.Description("Origin entity id")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("partner, child, or parent")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Target entity id")),
		mcp.WithOutputSchema[ConnectResponse](),
	)
	s.mcpServer.AddTool(connectTool, mcp.NewStructuredToolHandler(s.handleConnect))

	// TOOL: attach_child
	attachTool := mcp.NewTool("attach_child",
		mcp.WithDescription("Complete a pending child attachment against a chosen partner relationship, or pick how the co-parent comes to be."),
		mcp.WithString("relationship_id", mcp.Description("Chosen partner relationship id")),
		mcp.WithString("option", mcp.Description("One of unknown_co_parent, new_partner, existing_person, single_parent")),
		mcp.WithString("co_parent_id", mcp.Description("Existing person id for the existing_person option")),
		mcp.WithString("co_parent_name", mcp.Description("Name of the new person for the new_partner option")),
		mcp.WithOutputSchema[ConnectResponse](),
	)
	s.mcpServer.AddTool(attachTool, mcp.NewStructuredToolHandler(s.handleAttachChild))

	// TOOL: undo / redo
	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the latest mutation."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(fmt.Sprintf("%t", s.editor.Undo(ctx))), nil
	})
	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the latest undone mutation."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(fmt.Sprintf("%t", s.editor.Redo(ctx))), nil
	})

	// TOOL: get_document
	s.mcpServer.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Get the full genogram document as JSON."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := s.editor.Serialize()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("serialize failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	// TOOL: load_document
	s.mcpServer.AddTool(mcp.NewTool("load_document",
		mcp.WithDescription("Replace the document with the given JSON. History and selection reset."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Serialized document JSON")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, _ := request.GetArguments()["document"].(string)
		if err := s.editor.LoadData(ctx, []byte(data)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		return mcp.NewToolResultText("loaded"), nil
	})
}

func (s *Server) handleAddPerson(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	p := domain.Person{}
	p.Name, _ = args["name"].(string)
	if x, ok := args["x"].(float64); ok {
		p.X = x
	}
	if y, ok := args["y"].(float64); ok {
		p.Y = y
	}
	p.Gender, _ = args["gender"].(string)
	p.BirthDate, _ = args["birth_date"].(string)

	created, err := s.editor.AddPerson(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(created)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ConnectResponse, error) {
	originID, _ := args["origin_id"].(string)
	kind, _ := args["kind"].(string)
	targetID, _ := args["target_id"].(string)

	s.editor.StartConnection(originID, domain.ConnectionKind(kind))
	decision, ok := s.editor.CommitConnection(ctx, targetID)
	if !ok && decision == nil {
		// Drop the armed gesture so the next call starts clean.
		s.editor.CancelConnection()
	}
	return ConnectResponse{OK: ok, Decision: decision}, nil
}

func (s *Server) handleAttachChild(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ConnectResponse, error) {
	option, _ := args["option"].(string)
	var err error
	switch domain.CoParentOption(option) {
	case domain.OptionUnknownCoParent:
		err = s.editor.AttachChildWithUnknownCoParent(ctx)
	case domain.OptionNewPartner:
		name, _ := args["co_parent_name"].(string)
		_, err = s.editor.AttachChildWithNewPartner(ctx, domain.Person{Name: name})
	case domain.OptionExistingPerson:
		coParentID, _ := args["co_parent_id"].(string)
		err = s.editor.AttachChildWithExistingCoParent(ctx, coParentID)
	case domain.OptionSingleParent:
		_, err = s.editor.AttachChildSingleParent(ctx)
	default:
		relID, _ := args["relationship_id"].(string)
		_, err = s.editor.AttachChildToRelationship(ctx, relID)
	}
	if err != nil {
		return ConnectResponse{}, fmt.Errorf("attach failed: %w", err)
	}
	return ConnectResponse{OK: true}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: kinmap://document
	s.mcpServer.AddResource(mcp.NewResource("kinmap://document", "Current Genogram Document",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.editor.Serialize()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize document: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "kinmap://document",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
