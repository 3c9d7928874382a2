package patient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caresense/caresense/internal/domain/triage"
	"github.com/caresense/caresense/internal/platform/auth"
	"github.com/caresense/caresense/pkg/pagination"
)

// ReportRenderer turns one assessment into a downloadable document.
type ReportRenderer interface {
	Render(patientName string, assessedAt time.Time, a *triage.RiskAssessment) ([]byte, error)
}

type Handler struct {
	svc     *Service
	reports ReportRenderer
}

func NewHandler(svc *Service, reports ReportRenderer) *Handler {
	return &Handler{svc: svc, reports: reports}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "clinician", "patient"))
	readGroup.GET("/patients", h.ListPatients)
	readGroup.GET("/patients/:id", h.GetPatient)
	readGroup.GET("/patients/:id/records", h.ListRecords)
	readGroup.GET("/patients/:id/assessments", h.ListAssessments)
	readGroup.GET("/patients/:id/assessments/:aid", h.GetAssessment)
	readGroup.GET("/patients/:id/assessments/:aid/report", h.GetAssessmentReport)

	writeGroup := api.Group("", auth.RequireRole("admin", "clinician", "patient"))
	writeGroup.POST("/patients/:id/observations", h.LogObservation)

	manageGroup := api.Group("", auth.RequireRole("admin", "clinician"))
	manageGroup.POST("/patients", h.CreatePatient)
	manageGroup.PUT("/patients/:id", h.UpdatePatient)
	manageGroup.DELETE("/patients/:id", h.DeletePatient)
}

// -- Patient Handlers --

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.Active = true
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Observation Handlers --

func (h *Handler) LogObservation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var obs triage.HealthObservation
	if err := c.Bind(&obs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, stored, err := h.svc.LogObservation(c.Request().Context(), id, obs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"assessment_id": stored.ID,
		"assessment":    result,
	})
}

func (h *Handler) ListRecords(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecords(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Assessment Handlers --

func (h *Handler) ListAssessments(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAssessments(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAssessment(c echo.Context) error {
	aid, err := uuid.Parse(c.Param("aid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid assessment id")
	}
	a, err := h.svc.GetAssessment(c.Request().Context(), aid)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetAssessmentReport(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	aid, err := uuid.Parse(c.Param("aid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid assessment id")
	}
	if h.reports == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "report rendering not configured")
	}

	a, err := h.svc.GetAssessment(c.Request().Context(), aid)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	}
	if a.PatientID != pid {
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	}
	result, err := a.Result()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "stored assessment is corrupt")
	}

	p, err := h.svc.Get(c.Request().Context(), pid)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}

	pdf, err := h.reports.Render(p.FullName(), a.CreatedAt, result)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="assessment_%s.pdf"`, a.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
