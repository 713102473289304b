package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
	Context string `json:"context"`
}

type resumeRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// SendMessage POST /api/chat/message
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "message is required")
		return
	}

	claims := util.GetUserFromContext(c)
	exchange, err := ctrl.ChatService.SendMessage(claims.UserID, req.Message, req.Context)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, exchange)
}

// GetHistory GET /api/chat/history
func (ctrl *ChatController) GetHistory(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	claims := util.GetUserFromContext(c)

	messages, total, err := ctrl.ChatService.GetHistory(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Paginated(c, messages, page, limit, total)
}

// GetRecent GET /api/chat/recent
func (ctrl *ChatController) GetRecent(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	messages, err := ctrl.ChatService.GetRecent(claims.UserID, util.DefaultPageSize)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, messages)
}

// DeleteMessage DELETE /api/chat/messages/:id
func (ctrl *ChatController) DeleteMessage(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.ChatService.DeleteMessage(claims.UserID, util.MustParseUint(c.Param("id"))); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "message deleted"})
}

// GetRecommendations GET /api/chat/recommendations
func (ctrl *ChatController) GetRecommendations(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	util.Success(c, ctrl.ChatService.GetRecommendations(claims.UserID))
}

// Resume POST /api/chat/resume
func (ctrl *ChatController) Resume(c *gin.Context) {
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "prompt is required")
		return
	}
	claims := util.GetUserFromContext(c)
	util.Success(c, gin.H{"resume": ctrl.ChatService.Resume(claims.UserID, req.Prompt)})
}
