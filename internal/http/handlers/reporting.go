package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tdobson/snowy-sub000/internal/http/middleware"
	"github.com/tdobson/snowy-sub000/internal/http/response"
	"github.com/tdobson/snowy-sub000/internal/services"
)

type ReportingHandler struct {
	reportingService services.ReportingService
}

func NewReportingHandler(reportingService services.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingService: reportingService}
}

func (rh *ReportingHandler) ListProjectElevations(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := rh.reportingService.ElevationsByProject(c.Request.Context(), instanceID, projectID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"elevations": rows})
}

func (rh *ReportingHandler) ListPlotElevations(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	plotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := rh.reportingService.ElevationsByPlot(c.Request.Context(), instanceID, plotID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"elevations": rows})
}

func (rh *ReportingHandler) McsReport(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	rows, err := rh.reportingService.McsReport(c.Request.Context(), instanceID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": rows})
}

func (rh *ReportingHandler) ListMcsSubmissions(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	submissions, err := rh.reportingService.ListMcsSubmissions(c.Request.Context(), instanceID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": submissions})
}
