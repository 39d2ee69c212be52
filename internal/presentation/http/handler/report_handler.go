package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/application/service"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	location      *time.Location
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reportService: reportService, location: loc}
}

// Summary handles the revenue summary for a time window
func (h *ReportHandler) Summary(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter, err := parseWindow(req.From, req.To, h.location)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), filter, req.Top)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report generated successfully", summary)
}
