// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/services"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type ProductHandler struct {
	productService      *services.ProductService
	itemTrackingService *services.ItemTrackingService
	importService       *services.ImportService
}

func NewProductHandler(productService *services.ProductService, itemTrackingService *services.ItemTrackingService, importService *services.ImportService) *ProductHandler {
	return &ProductHandler{
		productService:      productService,
		itemTrackingService: itemTrackingService,
		importService:       importService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.productService.SearchProducts(params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/grouped
func (h *ProductHandler) GetGroupedInventory(c *gin.Context) {
	groups, ungrouped, err := h.productService.GroupedInventory()
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"cases":     groups,
		"ungrouped": ungrouped,
	})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.CreateProduct(email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, product)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	if err := h.productService.DeleteProduct(id, email); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Product deleted"})
}

// GET /products/:id/availability
func (h *ProductHandler) GetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	avail, err := h.productService.GetAvailability(id)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, avail)
}

// POST /products/:id/split
func (h *ProductHandler) SplitToItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	items, err := h.itemTrackingService.SplitToItems(id, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// POST /products/:id/merge
func (h *ProductHandler) MergeToArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	product, err := h.itemTrackingService.MergeToArticle(id, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PUT /products/:id/serial-number
func (h *ProductHandler) UpdateSerialNumber(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req struct {
		SerialNumber string `json:"serial_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	item, err := h.productService.UpdateSerialNumber(id, req.SerialNumber, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

type importRequest struct {
	Text string `json:"text" binding:"required"`
}

// POST /products/import/preview
func (h *ProductHandler) PreviewImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	preview, err := h.importService.Preview(req.Text)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, preview)
}

// POST /products/import
func (h *ProductHandler) Import(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.importService.Import(req.Text, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}
