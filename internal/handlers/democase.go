// internal/handlers/democase.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/services"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type DemoCaseHandler struct {
	demoCaseService *services.DemoCaseService
}

func NewDemoCaseHandler(demoCaseService *services.DemoCaseService) *DemoCaseHandler {
	return &DemoCaseHandler{demoCaseService: demoCaseService}
}

// GET /demo-cases
func (h *DemoCaseHandler) GetCases(c *gin.Context) {
	views, err := h.demoCaseService.ListCases()
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, views)
}

// POST /demo-cases
func (h *DemoCaseHandler) CreateCase(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.CreateDemoCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	demoCase, err := h.demoCaseService.CreateCase(email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, demoCase)
}

// GET /demo-cases/:id
func (h *DemoCaseHandler) GetCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid demo case ID", nil)
		return
	}

	demoCase, err := h.demoCaseService.GetCase(id)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, demoCase)
}

// PUT /demo-cases/:id
func (h *DemoCaseHandler) UpdateCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid demo case ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.UpdateDemoCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	demoCase, err := h.demoCaseService.UpdateCase(id, email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, demoCase)
}

// DELETE /demo-cases/:id
func (h *DemoCaseHandler) DeleteCase(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid demo case ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	if err := h.demoCaseService.DeleteCase(id, email); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Demo case deleted"})
}

type assignProductRequest struct {
	DemoCaseID *uuid.UUID `json:"demo_case_id"`
}

// PUT /products/:id/case
func (h *DemoCaseHandler) AssignProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req assignProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.demoCaseService.AssignProduct(productID, req.DemoCaseID, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}
