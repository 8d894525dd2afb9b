package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitetrack/sitetrack-backend/internal/http/response"
	"github.com/sitetrack/sitetrack-backend/internal/services"
)

type SavedFilterHandler struct {
	filterService services.SavedFilterService
}

func NewSavedFilterHandler(filterService services.SavedFilterService) *SavedFilterHandler {
	return &SavedFilterHandler{filterService: filterService}
}

func (fh *SavedFilterHandler) ListFilters(c *gin.Context) {
	filters, err := fh.filterService.ListFilters(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"filters": filters})
}

func (fh *SavedFilterHandler) CreateFilter(c *gin.Context) {
	var in services.SavedFilterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	filter, err := fh.filterService.CreateFilter(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, filter)
}

func (fh *SavedFilterHandler) UpdateFilter(c *gin.Context) {
	filterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var in services.SavedFilterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	filter, err := fh.filterService.UpdateFilter(c.Request.Context(), filterID, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, filter)
}

func (fh *SavedFilterHandler) DeleteFilter(c *gin.Context) {
	filterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := fh.filterService.DeleteFilter(c.Request.Context(), filterID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
