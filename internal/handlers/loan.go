// internal/handlers/loan.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/middleware"
	"github.com/demotrack/demotrack-backend/internal/services"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type LoanHandler struct {
	loanService *services.LoanService
}

func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// GET /loans
func (h *LoanHandler) GetLoans(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := c.Query("status")
	responsible := c.Query("responsible_email")

	loans, total, err := h.loanService.ListLoans(status, responsible, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(loans, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /loans/grouped
func (h *LoanHandler) GetGroupedLoans(c *gin.Context) {
	groups, standalone, err := h.loanService.GroupedActiveLoans()
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"groups":     groups,
		"standalone": standalone,
	})
}

// POST /products/:id/lend
func (h *LoanHandler) LendProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.LendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	loan, err := h.loanService.CreateLoan(productID, email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	middleware.RecordLoanOperation("lend")
	utils.CreatedResponse(c, loan)
}

// POST /loans/:id/return
func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid loan ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	loan, err := h.loanService.ReturnLoan(loanID, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	middleware.RecordLoanOperation("return")
	utils.SuccessResponse(c, loan)
}

type bulkLendRequest struct {
	ProductIDs []uuid.UUID          `json:"product_ids" binding:"required"`
	Lend       services.LendRequest `json:"lend" binding:"required"`
}

// POST /demo-cases/:id/lend
func (h *LoanHandler) LendCase(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid demo case ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req bulkLendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.loanService.BulkLendCase(caseID, req.ProductIDs, email, &req.Lend)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	middleware.RecordLoanOperation("lend_case")
	utils.SuccessResponse(c, result)
}

type bulkReturnRequest struct {
	LoanIDs []uuid.UUID `json:"loan_ids" binding:"required"`
}

// POST /loans/bulk-return
func (h *LoanHandler) BulkReturn(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	var req bulkReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.loanService.BulkReturnCase(req.LoanIDs, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	middleware.RecordLoanOperation("return_case")
	utils.SuccessResponse(c, result)
}

// POST /loans/fix-case-data
func (h *LoanHandler) FixCaseData(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	fixed, err := h.loanService.FixDemoCaseData(email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"fixed": fixed})
}

// GET /dashboard/stats
func (h *LoanHandler) GetDashboardStats(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	stats, err := h.loanService.DashboardStats(email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}
