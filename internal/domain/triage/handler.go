package triage

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caresense/caresense/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "clinician", "patient"))
	g.POST("/triage/assessments", h.Analyze)
	g.POST("/triage/chat", h.Chat)
}

// AnalyzeRequest wraps one observation with an optional patient for
// entitlement resolution.
type AnalyzeRequest struct {
	PatientID   *uuid.UUID        `json:"patient_id,omitempty"`
	Observation HealthObservation `json:"observation"`
}

func (h *Handler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	assessment := h.svc.AnalyzeObservation(c.Request().Context(), req.PatientID, req.Observation)
	return c.JSON(http.StatusOK, assessment)
}

func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp := h.svc.ClassifyMessage(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}
