// internal/handlers/team.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/demotrack/demotrack-backend/internal/services"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// GET /team
func (h *TeamHandler) GetMembers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	members, total, err := h.teamService.ListMembers(params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(members, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /team/active
func (h *TeamHandler) GetActiveMembers(c *gin.Context) {
	members, err := h.teamService.ActiveMembers()
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, members)
}

// POST /team
func (h *TeamHandler) CreateMember(c *gin.Context) {
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	created, err := h.teamService.CreateMember(email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.CreatedResponse(c, created)
}

// GET /team/:id
func (h *TeamHandler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid member ID", nil)
		return
	}

	member, err := h.teamService.GetMember(id)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, member)
}

// PUT /team/:id
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid member ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	member, err := h.teamService.UpdateMember(id, email, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, member)
}

// DELETE /team/:id
func (h *TeamHandler) DeactivateMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid member ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	if err := h.teamService.DeactivateMember(id, email); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Member deactivated"})
}

// POST /team/:id/reset-password
func (h *TeamHandler) ResetPassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid member ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	tempPassword, err := h.teamService.ResetPassword(id, email)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"temporary_password": tempPassword})
}

// POST /team/:id/photo
func (h *TeamHandler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid member ID", nil)
		return
	}
	email, _ := utils.GetUserEmailFromContext(c)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		utils.BadRequestResponse(c, "No photo file provided", err.Error())
		return
	}
	defer file.Close()

	member, err := h.teamService.UploadPhoto(id, email, file, header)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, member)
}
