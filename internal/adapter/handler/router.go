package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/common"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck probes one backing component
type HealthCheck func(ctx context.Context) error

// Router serves the MCP tools over streamable HTTP
type Router struct {
	server  *Server
	version string
	checks  map[string]HealthCheck
}

// NewRouter creates the HTTP router. checks are reported by /health.
func NewRouter(server *Server, version string, checks map[string]HealthCheck) *Router {
	return &Router{
		server:  server,
		version: version,
		checks:  checks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return rt.server.MCP()
	}, nil)
	e.Any("/mcp", echo.WrapHandler(mcpHandler))
}

// healthCheck returns 503 when any component check fails
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	resp := common.HealthResponse{
		Status:  "ok",
		Version: rt.version,
		Time:    time.Now().UTC(),
	}

	names := make([]string, 0, len(rt.checks))
	for name := range rt.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	for _, name := range names {
		if resp.Components == nil {
			resp.Components = make(map[string]string, len(names))
		}
		if err := rt.checks[name](ctx); err != nil {
			resp.Components[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[name] = "ok"
	}
	return c.JSON(status, resp)
}
