package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/audit"
	"github.com/sitetrack/sitetrack-backend/internal/http/response"
	"github.com/sitetrack/sitetrack-backend/internal/repos"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (ph *ProjectHandler) ListProjects(c *gin.Context) {
	filter := repos.ProjectFilter{
		Status:       c.Query("status"),
		Province:     c.Query("province"),
		Municipality: c.Query("municipality"),
		District:     c.Query("district"),
		Search:       c.Query("search"),
		SortBy:       c.Query("sort_by"),
		SortDesc:     c.Query("sort_order") == "desc",
	}
	if raw := c.Query("assigned_to"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		filter.AssignedTo = &userID
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	// Normalize limit before deriving the offset so page N stays page N
	// when the client omits or overshoots the limit.
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 {
		limit = services.DefaultPageSize
	}
	if limit > services.MaxPageSize {
		limit = services.MaxPageSize
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	projects, total, err := ph.projectService.ListProjects(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"projects": projects,
		"total":    total,
		"page":     page,
	})
}

func (ph *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	project, history, err := ph.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"project": project,
		"history": history,
	})
}

func (ph *ProjectHandler) CreateProject(c *gin.Context) {
	var in services.ProjectCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := ph.projectService.CreateProject(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, project)
}

func (ph *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var upd audit.ProjectUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := ph.projectService.UpdateProject(c.Request.Context(), projectID, &upd)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, project)
}

func (ph *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ph.projectService.DeleteProject(c.Request.Context(), projectID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ph *ProjectHandler) ListForMap(c *gin.Context) {
	projects, err := ph.projectService.ListForMap(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": projects})
}

func (ph *ProjectHandler) ListHistory(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	records, total, err := ph.projectService.ListHistory(c.Request.Context(), projectID, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"history": records,
		"total":   total,
	})
}

func (ph *ProjectHandler) BulkAction(c *gin.Context) {
	var in services.BulkActionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.projectService.BulkAction(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ph *ProjectHandler) Stats(c *gin.Context) {
	stats, err := ph.projectService.Stats(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
