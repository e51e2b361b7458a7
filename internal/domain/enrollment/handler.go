package enrollment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bicare/bicare360/internal/platform/auth"
	"github.com/bicare/bicare360/pkg/pagination"
	"github.com/bicare/bicare360/pkg/validate"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – admin, clinician, chw. Static paths go before :id so
	// echo does not swallow them as identifiers.
	readGroup := api.Group("", auth.RequireRole("admin", "clinician", "chw"))
	readGroup.GET("/hospitals", h.ListHospitals)
	readGroup.GET("/hospitals/active", h.ActiveHospitals)
	readGroup.GET("/hospitals/by-province", h.HospitalsByProvince)
	readGroup.GET("/hospitals/:id", h.GetHospital)
	readGroup.GET("/discharge-summaries", h.ListDischargeSummaries)
	readGroup.GET("/discharge-summaries/high-risk", h.HighRiskDischarges)
	readGroup.GET("/discharge-summaries/recent", h.RecentDischarges)
	readGroup.GET("/discharge-summaries/needs-follow-up", h.DischargesNeedingFollowUp)
	readGroup.GET("/discharge-summaries/:id", h.GetDischargeSummary)
	readGroup.GET("/discharge-summaries/:id/risk-analysis", h.RiskAnalysis)

	// Write endpoints – admin, clinician
	writeGroup := api.Group("", auth.RequireRole("admin", "clinician"))
	writeGroup.POST("/hospitals", h.CreateHospital)
	writeGroup.PUT("/hospitals/:id", h.UpdateHospital)
	writeGroup.DELETE("/hospitals/:id", h.DeleteHospital)
	writeGroup.POST("/discharge-summaries", h.CreateDischargeSummary)
	writeGroup.PUT("/discharge-summaries/:id", h.UpdateDischargeSummary)
	writeGroup.DELETE("/discharge-summaries/:id", h.DeleteDischargeSummary)
}

// validationResponse renders a validation failure list as structured JSON:
// 409 when the store reported a duplicate, 400 otherwise.
func validationResponse(c echo.Context, err error) error {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		status := http.StatusBadRequest
		if verrs.HasConflict() {
			status = http.StatusConflict
		}
		return c.JSON(status, map[string]interface{}{"errors": verrs})
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// -- Hospital Handlers --

func (h *Handler) CreateHospital(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hosp); err != nil {
		return validationResponse(c, err)
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

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, key := range []string{"hospital_type", "province", "district", "status", "emr_integration_type", "search"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	items, total, err := h.svc.SearchHospitals(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ActiveHospitals(c echo.Context) error {
	items, err := h.svc.ActiveHospitals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) HospitalsByProvince(c echo.Context) error {
	province := c.QueryParam("province")
	if province == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "province parameter is required")
	}
	items, err := h.svc.ActiveHospitalsByProvince(c.Request().Context(), province)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
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
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) DeleteHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteHospital(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrHospitalInUse) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Discharge Summary Handlers --

// summaryRequest carries a pointer override for follow_up_required so a
// request that omits it defaults to true, matching clinical practice where
// nearly every discharge warrants a follow-up visit.
type summaryRequest struct {
	DischargeSummary
	FollowUpRequired *bool `json:"follow_up_required"`
}

func (req *summaryRequest) resolve() *DischargeSummary {
	ds := req.DischargeSummary
	ds.FollowUpRequired = req.FollowUpRequired == nil || *req.FollowUpRequired
	return &ds
}

func (h *Handler) CreateDischargeSummary(c echo.Context) error {
	var req summaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ds := req.resolve()
	createdBy := auth.ActorIDFromContext(c.Request().Context())
	if err := h.svc.CreateDischargeSummary(c.Request().Context(), ds, createdBy); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusCreated, ds)
}

func (h *Handler) GetDischargeSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ds, err := h.svc.GetDischargeSummary(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "discharge summary not found")
	}
	return c.JSON(http.StatusOK, ds)
}

func (h *Handler) ListDischargeSummaries(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, key := range []string{"patient_id", "hospital_id", "discharge_condition", "risk_level", "follow_up_required", "search"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	items, total, err := h.svc.SearchDischargeSummaries(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) HighRiskDischarges(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.HighRiskDischarges(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecentDischarges(c echo.Context) error {
	pg := pagination.FromContext(c)
	days := 7
	if v := c.QueryParam("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
		days = parsed
	}
	items, total, err := h.svc.RecentDischarges(c.Request().Context(), days, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DischargesNeedingFollowUp(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.DischargesNeedingFollowUp(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RiskAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	analysis, err := h.svc.RiskAnalysis(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "discharge summary not found")
	}
	return c.JSON(http.StatusOK, analysis)
}

func (h *Handler) UpdateDischargeSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req summaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ds := req.resolve()
	ds.ID = id
	updated, err := h.svc.UpdateDischargeSummary(c.Request().Context(), ds)
	if err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteDischargeSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDischargeSummary(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
