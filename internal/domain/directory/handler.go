package directory

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caresense/caresense/internal/platform/auth"
	"github.com/caresense/caresense/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "clinician", "patient"))
	readGroup.GET("/specialists", h.ListSpecialists)
	readGroup.GET("/specialists/:id", h.GetSpecialist)
	readGroup.GET("/hospitals", h.ListHospitals)
	readGroup.GET("/hospitals/:id", h.GetHospital)

	writeGroup := api.Group("", auth.RequireRole("admin"))
	writeGroup.POST("/specialists", h.CreateSpecialist)
	writeGroup.PUT("/specialists/:id", h.UpdateSpecialist)
	writeGroup.DELETE("/specialists/:id", h.DeleteSpecialist)
	writeGroup.POST("/hospitals", h.CreateHospital)
	writeGroup.PUT("/hospitals/:id", h.UpdateHospital)
	writeGroup.DELETE("/hospitals/:id", h.DeleteHospital)
}

// -- Specialist Handlers --

func (h *Handler) CreateSpecialist(c echo.Context) error {
	var sp Specialist
	if err := c.Bind(&sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateSpecialist(c.Request().Context(), &sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *Handler) GetSpecialist(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sp, err := h.svc.GetSpecialist(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "specialist not found")
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) UpdateSpecialist(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var sp Specialist
	if err := c.Bind(&sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sp.ID = id
	if err := h.svc.UpdateSpecialist(c.Request().Context(), &sp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *Handler) DeleteSpecialist(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteSpecialist(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListSpecialists(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListSpecialists(c.Request().Context(), c.QueryParam("specialty"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Hospital Handlers --

func (h *Handler) CreateHospital(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hosp, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) UpdateHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp.ID = id
	if err := h.svc.UpdateHospital(c.Request().Context(), &hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) DeleteHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteHospital(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListHospitals(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
