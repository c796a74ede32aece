// Package api contains the HTTP handlers for the onboarding console service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/ndis"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/workflow"
)

// Server holds the dependencies for the API server.
type Server struct {
	Workflow *workflow.Service
	Logger   *zap.Logger
}

// NewServer creates a new Server.
func NewServer(wf *workflow.Service, logger *zap.Logger) *Server {
	return &Server{Workflow: wf, Logger: logger.Named("api")}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Service:   "ndis-onboarding",
		Version:   "1.0.0",
	})
}

// ProblemDetails represents an RFC 7807 Problem Details response. The
// extension members carry the structured context the console renders:
// readiness gaps for the not-ready surface and the failed phase for a
// partial completion.
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`

	Gaps              []string `json:"gaps,omitempty"`
	Phase             string   `json:"phase,omitempty"`
	SchedulePersisted bool     `json:"schedule_persisted,omitempty"`
}

// writeError maps domain errors onto HTTP responses. Not-found and not-ready
// are terminal conditions with their own shapes; everything else is a plain
// failure carrying the platform's message when it provided one.
func (s *Server) writeError(c echo.Context, err error) error {
	var notReady *workflow.NotReadyError
	var completion *workflow.CompletionError

	switch {
	case errors.Is(err, ndis.ErrNotFound):
		return problemJSON(c, ProblemDetails{
			Type:   "participant-not-found",
			Title:  "Participant Not Found",
			Status: http.StatusNotFound,
			Detail: err.Error(),
		})
	case errors.Is(err, workflow.ErrRunNotFound):
		return problemJSON(c, ProblemDetails{
			Type:   "run-not-found",
			Title:  "Onboarding Run Not Found",
			Status: http.StatusNotFound,
			Detail: err.Error(),
		})
	case errors.As(err, &notReady):
		return problemJSON(c, ProblemDetails{
			Type:   "participant-not-ready",
			Title:  "Participant Not Ready for Scheduling",
			Status: http.StatusConflict,
			Detail: err.Error(),
			Gaps:   notReady.Gaps,
		})
	case errors.As(err, &completion):
		return problemJSON(c, ProblemDetails{
			Type:              "completion-failed",
			Title:             "Onboarding Completion Failed",
			Status:            http.StatusBadGateway,
			Detail:            err.Error(),
			Phase:             string(completion.Phase),
			SchedulePersisted: completion.SchedulePersisted,
		})
	case errors.Is(err, workflow.ErrInvalidTransition):
		return problemJSON(c, ProblemDetails{
			Type:   "invalid-transition",
			Title:  "Invalid Step Transition",
			Status: http.StatusConflict,
			Detail: err.Error(),
		})
	case errors.Is(err, workflow.ErrEmptyAssignments):
		return problemJSON(c, ProblemDetails{
			Type:   "invalid-assignments",
			Title:  "Invalid Assignment Batch",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		})
	default:
		s.Logger.Error("request failed", zap.Error(err))
		return problemJSON(c, ProblemDetails{
			Type:   "platform-error",
			Title:  "Platform Request Failed",
			Status: http.StatusBadGateway,
			Detail: err.Error(),
		})
	}
}

// problemJSON writes an RFC 7807 Problem Details JSON error response.
func problemJSON(c echo.Context, p ProblemDetails) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	c.Response().WriteHeader(p.Status)
	return json.NewEncoder(c.Response()).Encode(p)
}
