package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/http/response"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (rh *ReportHandler) Summary(c *gin.Context) {
	report, err := rh.reportService.Summary(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (rh *ReportHandler) Province(c *gin.Context) {
	report, err := rh.reportService.Province(c.Request.Context(), c.Param("province"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, report)
}

func (rh *ReportHandler) Timeline(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "0"))
	points, err := rh.reportService.Timeline(c.Request.Context(), months)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"timeline": points})
}

func (rh *ReportHandler) StatusBreakdown(c *gin.Context) {
	buckets, err := rh.reportService.StatusBreakdown(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"statuses": buckets})
}

func (rh *ReportHandler) SaveReport(c *gin.Context) {
	var in services.SavedReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	report, err := rh.reportService.SaveReport(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, report)
}

func (rh *ReportHandler) ListSavedReports(c *gin.Context) {
	reports, err := rh.reportService.ListSavedReports(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reports": reports})
}

func (rh *ReportHandler) DeleteSavedReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := rh.reportService.DeleteSavedReport(c.Request.Context(), reportID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
