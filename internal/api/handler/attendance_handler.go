package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/govtech/attendance-system/internal/api/metrics"
	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
)

// AttendanceHandler handles HTTP requests for attendance operations.
type AttendanceHandler struct {
	service ports.AttendanceService
}

func NewAttendanceHandler(service ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// List handles GET /v1/attendance, the user's full history ascending by date.
//
// @Summary      List own attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listRecordsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/attendance [get]
func (h *AttendanceHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListRecords(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(records))
}

// CheckIn handles POST /v1/attendance/checkin.
//
// @Summary      Check in for today
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  okResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/attendance/checkin [post]
func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if _, err := h.service.CheckIn(c.Request().Context(), userID); err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(transitionErrorReason(err)).Inc()
		return err
	}

	metrics.CheckInsTotal.Inc()
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// CheckOut handles POST /v1/attendance/checkout.
//
// @Summary      Check out for today
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  okResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/attendance/checkout [post]
func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if _, err := h.service.CheckOut(c.Request().Context(), userID); err != nil {
		metrics.TransitionErrorsTotal.WithLabelValues(transitionErrorReason(err)).Inc()
		return err
	}

	metrics.CheckOutsTotal.Inc()
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Dashboard handles GET /v1/attendance/dashboard: derived presence metrics
// plus the 7-day chart projection.
//
// @Summary      Get presence dashboard
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/attendance/dashboard [get]
func (h *AttendanceHandler) Dashboard(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	d, err := h.service.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(d))
}

func transitionErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, domain.ErrNotCheckedIn):
		return "not_checked_in"
	case errors.Is(err, domain.ErrAlreadyCheckedOut):
		return "already_checked_out"
	case errors.Is(err, domain.ErrCheckOutNotAfterCheckIn):
		return "out_of_order"
	default:
		return "internal"
	}
}
