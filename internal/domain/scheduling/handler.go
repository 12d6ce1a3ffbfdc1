package scheduling

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/hms/internal/platform/outcome"
	"github.com/ehr/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointmentDetails)
	api.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
	api.DELETE("/appointments/:id", h.DeleteAppointment)

	api.GET("/doctors/:id/slots", h.CheckSlot)
}

func httpError(err error) error {
	return echo.NewHTTPError(outcome.HTTPStatus(err), err.Error())
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateAppointment(c.Request().Context(), &a); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	a, err := h.svc.GetAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListAppointments filters by ?date=YYYY-MM-DD or ?doctor_id=.
func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		appts []*Appointment
		err   error
	)
	switch {
	case c.QueryParam("date") != "":
		date, perr := ParseDate(c.QueryParam("date"))
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, perr.Error())
		}
		appts, err = h.svc.ListAppointmentsByDate(ctx, date)
	case c.QueryParam("doctor_id") != "":
		appts, err = h.svc.ListAppointmentsByDoctor(ctx, c.QueryParam("doctor_id"))
	default:
		appts, err = h.svc.ListAppointments(ctx)
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.Page(appts, pagination.FromContext(c)))
}

func (h *Handler) UpdateAppointmentDetails(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.AppointmentID = c.Param("id")
	if err := h.svc.UpdateAppointmentDetails(c.Request().Context(), &a); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status, err := ParseStatus(body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateAppointmentStatus(c.Request().Context(), c.Param("id"), status); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"appointment_id": c.Param("id"), "status": string(status)})
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	if err := h.svc.DeleteAppointment(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckSlot answers GET /doctors/:id/slots?date=YYYY-MM-DD&time=HH:MM.
func (h *Handler) CheckSlot(c echo.Context) error {
	date, err := ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	at, err := ParseTimeOfDay(c.QueryParam("time"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	free, err := h.svc.IsTimeSlotAvailable(c.Request().Context(), c.Param("id"), date, at)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctor_id": c.Param("id"),
		"date":      date.Format(DateLayout),
		"time":      at.String(),
		"available": free,
	})
}
