package patient

import (
	"errors"
	"net/http"

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
	// Read endpoints – admin, clinician, chw
	readGroup := api.Group("", auth.RequireRole("admin", "clinician", "chw"))
	readGroup.GET("/patients", h.ListPatients)
	readGroup.GET("/patients/stats", h.PatientStats)
	readGroup.GET("/patients/:id", h.GetPatient)
	readGroup.GET("/patients/:id/emergency-contacts", h.ListPatientContacts)
	readGroup.GET("/addresses", h.ListAddresses)
	readGroup.GET("/addresses/:id", h.GetAddress)
	readGroup.GET("/emergency-contacts", h.ListEmergencyContacts)
	readGroup.GET("/emergency-contacts/:id", h.GetEmergencyContact)

	// Write endpoints – admin, clinician
	writeGroup := api.Group("", auth.RequireRole("admin", "clinician"))
	writeGroup.POST("/patients", h.CreatePatient)
	writeGroup.PUT("/patients/:id", h.UpdatePatient)
	writeGroup.DELETE("/patients/:id", h.DeletePatient)
	writeGroup.POST("/patients/:id/activate", h.ActivatePatient)
	writeGroup.POST("/patients/:id/deactivate", h.DeactivatePatient)
	writeGroup.POST("/addresses", h.CreateAddress)
	writeGroup.PUT("/addresses/:id", h.UpdateAddress)
	writeGroup.DELETE("/addresses/:id", h.DeleteAddress)
	writeGroup.POST("/emergency-contacts", h.CreateEmergencyContact)
	writeGroup.PUT("/emergency-contacts/:id", h.UpdateEmergencyContact)
	writeGroup.DELETE("/emergency-contacts/:id", h.DeleteEmergencyContact)
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

// patientRequest carries pointer overrides for the boolean preferences so a
// request that omits them gets the enrollment defaults (sms on, whatsapp off)
// instead of Go zero values. Create requests may also carry a nested address
// and emergency contacts, enrolled atomically with the patient.
type patientRequest struct {
	Patient
	PrefersSMS        *bool               `json:"prefers_sms"`
	PrefersWhatsApp   *bool               `json:"prefers_whatsapp"`
	Address           *Address            `json:"address"`
	EmergencyContacts []*EmergencyContact `json:"emergency_contacts"`
}

func (req *patientRequest) resolve() *Patient {
	p := req.Patient
	p.PrefersSMS = true
	if req.PrefersSMS != nil {
		p.PrefersSMS = *req.PrefersSMS
	}
	p.PrefersWhatsApp = req.PrefersWhatsApp != nil && *req.PrefersWhatsApp
	return &p
}

// -- Patient Handlers --

func (h *Handler) CreatePatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := req.resolve()
	enrolledBy := auth.ActorIDFromContext(c.Request().Context())
	if err := h.svc.EnrollPatient(c.Request().Context(), p, req.Address, req.EmergencyContacts, enrolledBy); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, key := range []string{"is_active", "gender", "language_preference", "search"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	items, total, err := h.svc.SearchPatients(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p := req.resolve()
	p.ID = id
	updated, err := h.svc.UpdatePatient(c.Request().Context(), p)
	if err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ActivatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.ActivatePatient(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "patient activated"})
}

func (h *Handler) DeactivatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivatePatient(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "patient deactivated"})
}

func (h *Handler) PatientStats(c echo.Context) error {
	stats, err := h.svc.PatientStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

// -- Address Handlers --

func (h *Handler) CreateAddress(c echo.Context) error {
	var a Address
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateAddress(c.Request().Context(), &a); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAddress(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAddress(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "address not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAddresses(c echo.Context) error {
	pg := pagination.FromContext(c)
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		a, err := h.svc.GetAddressByPatient(c.Request().Context(), pid)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "address not found")
		}
		return c.JSON(http.StatusOK, pagination.NewResponse([]*Address{a}, 1, pg.Limit, pg.Offset))
	}
	params := map[string]string{}
	for _, key := range []string{"province", "district", "sector"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	items, total, err := h.svc.SearchAddresses(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateAddress(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Address
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.UpdateAddress(c.Request().Context(), &a); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAddress(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAddress(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Emergency Contact Handlers --

func (h *Handler) CreateEmergencyContact(c echo.Context) error {
	var ec EmergencyContact
	if err := c.Bind(&ec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEmergencyContact(c.Request().Context(), &ec); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusCreated, ec)
}

func (h *Handler) GetEmergencyContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ec, err := h.svc.GetEmergencyContact(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emergency contact not found")
	}
	return c.JSON(http.StatusOK, ec)
}

func (h *Handler) ListEmergencyContacts(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, key := range []string{"patient_id", "relationship", "is_primary"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	items, total, err := h.svc.SearchEmergencyContacts(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPatientContacts(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListEmergencyContactsByPatient(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateEmergencyContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var ec EmergencyContact
	if err := c.Bind(&ec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ec.ID = id
	if err := h.svc.UpdateEmergencyContact(c.Request().Context(), &ec); err != nil {
		return validationResponse(c, err)
	}
	return c.JSON(http.StatusOK, ec)
}

func (h *Handler) DeleteEmergencyContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteEmergencyContact(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
