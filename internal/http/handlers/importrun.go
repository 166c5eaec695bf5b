package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tdobson/snowy-sub000/internal/http/middleware"
	"github.com/tdobson/snowy-sub000/internal/http/response"
	"github.com/tdobson/snowy-sub000/internal/importer"
	"github.com/tdobson/snowy-sub000/internal/services"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportPlot accepts one plot graph and runs it through the pipeline.
// The mutation is idempotent: posting the same body twice converges on
// the same rows.
func (ih *ImportHandler) ImportPlot(c *gin.Context) {
	userID, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var in importer.PlotImport
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	opts := importer.ImportOptions{
		Ref:    c.Query("ref"),
		Source: "api",
		UserID: &userID,
	}
	result, err := ih.importService.ImportPlot(c.Request.Context(), instanceID, &in, opts)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ih *ImportHandler) ListRuns(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := ih.importService.ListRuns(c.Request.Context(), instanceID, limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"imports": runs})
}

func (ih *ImportHandler) GetRun(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	importID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	run, err := ih.importService.GetRun(c.Request.Context(), importID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if run.InstanceID != instanceID {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondOK(c, run)
}

// SweepFolder kicks off a bounded pass over the configured tracker
// folder. Runs synchronously; the budget caps the request duration.
func (ih *ImportHandler) SweepFolder(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := ih.importService.SweepFolder(c.Request.Context(), instanceID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
