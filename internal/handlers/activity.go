// internal/handlers/activity.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/demotrack/demotrack-backend/internal/services"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type ActivityHandler struct {
	activityService *services.ActivityService
	exportService   *services.ExportService
}

func NewActivityHandler(activityService *services.ActivityService, exportService *services.ExportService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		exportService:   exportService,
	}
}

// GET /activity
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.activityService.List(params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /activity/export
func (h *ActivityHandler) ExportCSV(c *gin.Context) {
	csv, err := h.exportService.ActivityCSV(1000)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	filename := h.exportService.ActivityCSVFilename(time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// GET /inventory/export
func (h *ActivityHandler) ExportInventoryXLSX(c *gin.Context) {
	data, filename, err := h.exportService.InventoryXLSX()
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
