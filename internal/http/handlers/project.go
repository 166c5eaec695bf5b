package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	"github.com/tdobson/snowy-sub000/internal/http/middleware"
	"github.com/tdobson/snowy-sub000/internal/http/response"
	"github.com/tdobson/snowy-sub000/internal/services"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (ph *ProjectHandler) CreateProject(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var project types.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ph.projectService.CreateProject(c.Request.Context(), instanceID, &project); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, project)
}

func (ph *ProjectHandler) GetProject(c *gin.Context) {
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
	project, err := ph.projectService.GetProject(c.Request.Context(), instanceID, projectID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, project)
}

func (ph *ProjectHandler) ListProjects(c *gin.Context) {
	_, instanceID, ok := middleware.CallerIdentity(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	projects, err := ph.projectService.ListProjects(c.Request.Context(), instanceID, limit, offset)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": projects})
}

func (ph *ProjectHandler) UpdateProject(c *gin.Context) {
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
	var req struct {
		ProjectName *string `json:"project_name"`
		RefNumber   *string `json:"ref_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	updates := map[string]any{}
	if req.ProjectName != nil {
		updates["project_name"] = *req.ProjectName
	}
	if req.RefNumber != nil {
		updates["ref_number"] = *req.RefNumber
	}
	project, err := ph.projectService.UpdateProject(c.Request.Context(), instanceID, projectID, updates)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, project)
}

func (ph *ProjectHandler) DeleteProject(c *gin.Context) {
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
	if err := ph.projectService.DeleteProject(c.Request.Context(), instanceID, projectID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ph *ProjectHandler) ListProjectPlots(c *gin.Context) {
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
	plots, err := ph.projectService.ListPlots(c.Request.Context(), instanceID, projectID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plots": plots})
}
