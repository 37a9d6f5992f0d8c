package handler

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-archive/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-archive/internal/usecase/archive"
	"github.com/johnquangdev/meeting-archive/internal/usecase/directory"
	"github.com/johnquangdev/meeting-archive/internal/usecase/retrieval"
	"github.com/johnquangdev/meeting-archive/pkg/validator"
)

// ServerName is the MCP implementation name
const ServerName = "meeting-archive"

// Server exposes the archive as a catalog of MCP tools
type Server struct {
	mcp       *mcp.Server
	archive   archive.Service
	retrieval retrieval.Service
	directory directory.Service
	validator *validator.CustomValidator
	logger    *zap.Logger
}

// NewServer creates the MCP server and registers every tool
func NewServer(
	version string,
	archiveSvc archive.Service,
	retrievalSvc retrieval.Service,
	directorySvc directory.Service,
	logger *zap.Logger,
) (*Server, error) {
	if archiveSvc == nil {
		return nil, fmt.Errorf("archive service is required")
	}
	if retrievalSvc == nil {
		return nil, fmt.Errorf("retrieval service is required")
	}
	if directorySvc == nil {
		return nil, fmt.Errorf("directory service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp:       mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
		archive:   archiveSvc,
		retrieval: retrievalSvc,
		directory: directorySvc,
		validator: validator.New(),
		logger:    logger,
	}

	s.registerMeetingTools()
	s.registerClientTools()
	s.registerContextTools()
	s.registerIntegrationTools()

	return s, nil
}

// MCP returns the underlying protocol server
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves the tools on stdio until ctx is done or the client disconnects
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// toolFunc produces the text of a tool call. A non-empty text returned
// together with an error replaces the default error rendering.
type toolFunc[In any] func(ctx context.Context, in In) (string, error)

// addTool registers a tool whose input is validated before run is called.
// Failures are reported as error results, never as protocol errors.
func addTool[In any](s *Server, name, description string, run toolFunc[In]) {
	mcp.AddTool(s.mcp, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			if err := s.validator.Validate(in); err != nil {
				return errorResult(presenter.Error(err)), nil, nil
			}

			text, err := run(ctx, in)
			if err != nil {
				s.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
				if text == "" {
					text = presenter.Error(err)
				}
				return errorResult(text), nil, nil
			}
			return textResult(text), nil, nil
		})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
