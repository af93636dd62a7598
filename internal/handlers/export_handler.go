package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	service services.ExportService
}

func NewExportHandler(service services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *ExportHandler) ExportLeaderboard(c *gin.Context) {
	h.LogRequest(c, "Exporting leaderboard")

	buf, err := h.service.ExportLeaderboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	fileName := fmt.Sprintf("leaderboard_%s.xlsx", time.Now().Format("20060102_150405"))
	h.sendWorkbook(c, fileName, buf)
}

func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	date := c.Query("date")
	h.LogRequest(c, "Exporting attendance", "date", date)

	buf, err := h.service.ExportAttendance(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, fmt.Sprintf("attendance_%s.xlsx", date), buf)
}

func (h *ExportHandler) sendWorkbook(c *gin.Context, fileName string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
