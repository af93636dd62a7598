package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetStudentDashboard returns the calling student's dashboard
// @Summary Get student dashboard
// @Description Stats, pending and graded homework, and attendance for the current student
// @Tags students
// @Produce json
// @Success 200 {object} models.StudentDashboard
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Student no longer exists"
// @Router /student/dashboard [get]
func (h *DashboardHandler) GetStudentDashboard(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Getting student dashboard", "student_id", studentID)

	dashboard, err := h.service.GetStudentDashboard(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
