package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
)

type AttendanceHandler struct {
	BaseHandler
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ReconcileAttendance applies a day's attendance records
// @Summary Reconcile attendance
// @Description Upserts or clears one attendance row per student for the date. Answers 207 when some records failed.
// @Tags attendance
// @Accept json
// @Produce json
// @Param attendance body models.AttendanceReconcileRequest true "Attendance for one date"
// @Success 200 {object} models.AttendanceReconcileResult
// @Success 207 {object} models.AttendanceReconcileResult "Partial failure"
// @Failure 400 {object} ErrorResponse
// @Router /admin/attendance [post]
func (h *AttendanceHandler) ReconcileAttendance(c *gin.Context) {
	var req models.AttendanceReconcileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Reconciling attendance", "date", req.Date, "records", len(req.Records))

	result, err := h.service.Reconcile(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if len(result.Failures) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	date := c.Query("date")
	h.LogRequest(c, "Getting attendance", "date", date)

	records, err := h.service.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
