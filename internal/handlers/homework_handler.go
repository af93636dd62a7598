package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
)

type HomeworkHandler struct {
	BaseHandler
	service services.HomeworkService
}

func NewHomeworkHandler(service services.HomeworkService, logger utils.Logger) *HomeworkHandler {
	return &HomeworkHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// AssignHomework creates a homework and its pending submission
// @Summary Assign homework
// @Tags homework
// @Accept json
// @Produce json
// @Param homework body models.HomeworkCreateRequest true "Homework data"
// @Success 201 {object} services.HomeworkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /admin/homework [post]
func (h *HomeworkHandler) AssignHomework(c *gin.Context) {
	var req models.HomeworkCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Assigning homework", "title", req.Title)

	homework, err := h.service.Assign(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, homework)
}

func (h *HomeworkHandler) ListHomework(c *gin.Context) {
	h.LogRequest(c, "Listing homework")

	homeworks, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, homeworks)
}

func (h *HomeworkHandler) ListHomeworkSubmissions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Listing homework submissions", "homework_id", id)

	submissions, err := h.service.ListSubmissions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}
