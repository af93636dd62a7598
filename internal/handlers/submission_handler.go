package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	service services.GradingService
}

func NewSubmissionHandler(service services.GradingService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GradeSubmission sets a submission's status and updates the student's standing
// @Summary Grade submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path uint true "Submission ID"
// @Param grade body models.GradeSubmissionRequest true "Grade"
// @Success 200 {object} services.GradeResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/submissions/{id} [put]
func (h *SubmissionHandler) GradeSubmission(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req models.GradeSubmissionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Grading submission", "submission_id", id, "status", req.Status)

	result, err := h.service.GradeSubmission(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
