package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/claimdesk/claimdesk/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/catalog/plans", h.CreatePlan)
	api.GET("/catalog/plans", h.ListPlans)
	api.GET("/catalog/plans/:id", h.GetPlan)
	api.GET("/catalog/plans/:id/benefits", h.ListPlanBenefits)

	api.POST("/catalog/benefits", h.CreateBenefit)
	api.GET("/catalog/benefits", h.ListBenefits)
	api.GET("/catalog/benefits/:id", h.GetBenefit)

	api.POST("/catalog/plan-benefits", h.LinkBenefit)
	api.PUT("/catalog/plan-benefits/:id", h.UpdateLink)

	api.POST("/catalog/procedures", h.CreateProcedure)
	api.GET("/catalog/procedures", h.ListProcedures)
	api.GET("/catalog/procedures/:id", h.GetProcedure)
}

// -- Plans --

func (h *Handler) CreatePlan(c echo.Context) error {
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePlan(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPlan(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPlan(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err, "plan not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPlans(c echo.Context) error {
	p := pagination.FromContext(c)
	plans, total, err := h.svc.ListPlans(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(plans, total, p.Limit, p.Offset))
}

// -- Benefits --

func (h *Handler) CreateBenefit(c echo.Context) error {
	var b Benefit
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBenefit(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBenefit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b, err := h.svc.GetBenefit(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err, "benefit not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBenefits(c echo.Context) error {
	p := pagination.FromContext(c)
	benefits, total, err := h.svc.ListBenefits(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(benefits, total, p.Limit, p.Offset))
}

// -- Plan-Benefit Links --

func (h *Handler) LinkBenefit(c echo.Context) error {
	var link PlanBenefit
	if err := c.Bind(&link); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.LinkBenefit(c.Request().Context(), &link); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, link)
}

func (h *Handler) UpdateLink(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var link PlanBenefit
	if err := c.Bind(&link); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link.ID = id
	if err := h.svc.UpdateLink(c.Request().Context(), &link); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "plan benefit link not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, link)
}

func (h *Handler) ListPlanBenefits(c echo.Context) error {
	planID, err := pathID(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	links, total, err := h.svc.ListPlanBenefits(c.Request().Context(), planID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(links, total, p.Limit, p.Offset))
}

// -- Procedures --

func (h *Handler) CreateProcedure(c echo.Context) error {
	var p Procedure
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProcedure(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProcedure(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProcedure(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err, "procedure not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProcedures(c echo.Context) error {
	p := pagination.FromContext(c)
	procedures, total, err := h.svc.ListProcedures(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(procedures, total, p.Limit, p.Offset))
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func notFoundOr500(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, msg)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
