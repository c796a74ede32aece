package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/emanuel-amol/NDIS-Mangement123-sub004/internal/auth"
	"github.com/emanuel-amol/NDIS-Mangement123-sub004/pkg/models"
)

// RegisterHandlers mounts the onboarding workflow routes on the
// authenticated /api/v1 group. Workflow mutations are restricted to provider
// admins and managers; the dashboard is additionally readable by HR and
// finance.
func RegisterHandlers(g *echo.Group, s *Server) {
	operators := auth.RequireRole(auth.RoleProviderAdmin, auth.RoleManager)
	dashboard := auth.RequireRole(auth.RoleProviderAdmin, auth.RoleManager, auth.RoleHR, auth.RoleFinance)

	g.POST("/participants/:id/onboarding", s.StartOnboarding, operators)
	g.GET("/participants/:id/needs", s.GetParticipantNeeds, operators)
	g.GET("/onboarding/runs/:runID", s.GetRun, operators)
	g.POST("/onboarding/runs/:runID/proceed", s.ProceedRun, operators)
	g.POST("/onboarding/runs/:runID/back", s.BackRun, operators)
	g.POST("/onboarding/runs/:runID/assignments", s.SubmitAssignments, operators)
	g.POST("/onboarding/runs/:runID/schedule", s.GenerateSchedule, operators)
	g.POST("/onboarding/runs/:runID/status-retry", s.RetryStatusUpdate, operators)
	g.DELETE("/onboarding/runs/:runID", s.AbandonRun, operators)
	g.GET("/dashboard/onboarding", s.OnboardingDashboard, dashboard)
}

// StartOnboarding begins an onboarding run for a participant
// (POST /api/v1/participants/:id/onboarding)
func (s *Server) StartOnboarding(c echo.Context) error {
	id, err := participantID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	orgID, _ := auth.OrgIDFromContext(ctx)
	email, _ := auth.EmailFromContext(ctx)

	run, err := s.Workflow.Start(ctx, id, orgID, email)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, run)
}

// GetParticipantNeeds returns the computed support requirements for the
// assignment screen (GET /api/v1/participants/:id/needs)
func (s *Server) GetParticipantNeeds(c echo.Context) error {
	id, err := participantID(c)
	if err != nil {
		return err
	}

	needs, err := s.Workflow.ParticipantNeeds(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, needs)
}

// GetRun returns the current state of a run
// (GET /api/v1/onboarding/runs/:runID)
func (s *Server) GetRun(c echo.Context) error {
	run, err := s.Workflow.Get(c.Param("runID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// ProceedRun is the operator's explicit move from review to assignment
// (POST /api/v1/onboarding/runs/:runID/proceed)
func (s *Server) ProceedRun(c echo.Context) error {
	run, err := s.Workflow.Proceed(c.Param("runID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// BackRun steps a run backward, discarding unpersisted in-step state
// (POST /api/v1/onboarding/runs/:runID/back)
func (s *Server) BackRun(c echo.Context) error {
	run, err := s.Workflow.Back(c.Param("runID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// SubmitAssignments persists the assignment batch and advances the run
// (POST /api/v1/onboarding/runs/:runID/assignments)
func (s *Server) SubmitAssignments(c echo.Context) error {
	var body struct {
		Assignments []models.Assignment `json:"assignments"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	run, err := s.Workflow.SubmitAssignments(c.Request().Context(), c.Param("runID"), body.Assignments)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// GenerateSchedule builds and persists the proposed appointments, then marks
// the participant active (POST /api/v1/onboarding/runs/:runID/schedule)
func (s *Server) GenerateSchedule(c echo.Context) error {
	run, err := s.Workflow.GenerateSchedule(c.Request().Context(), c.Param("runID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// RetryStatusUpdate re-issues only the status patch for a run whose schedule
// was persisted but whose status update failed
// (POST /api/v1/onboarding/runs/:runID/status-retry)
func (s *Server) RetryStatusUpdate(c echo.Context) error {
	run, err := s.Workflow.RetryStatusUpdate(c.Request().Context(), c.Param("runID"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// AbandonRun discards a run (DELETE /api/v1/onboarding/runs/:runID)
func (s *Server) AbandonRun(c echo.Context) error {
	if err := s.Workflow.Abandon(c.Param("runID")); err != nil {
		return s.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// OnboardingDashboard returns the onboarding aggregation view
// (GET /api/v1/dashboard/onboarding)
func (s *Server) OnboardingDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	orgID, _ := auth.OrgIDFromContext(ctx)

	summary, err := s.Workflow.Dashboard(ctx, orgID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func participantID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "participant id must be a positive integer")
	}
	return id, nil
}
