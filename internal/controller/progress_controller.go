package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// UpdateProgress PUT /api/progress/lessons/:id
func (ctrl *ProgressController) UpdateProgress(c *gin.Context) {
	var req service.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "invalid progress payload, timeSpent must be >= 0")
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctrl.ProgressService.UpdateLessonProgress(claims.UserID, util.MustParseUint(c.Param("id")), req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, result)
}

// GetOverview GET /api/progress/overview
func (ctrl *ProgressController) GetOverview(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	overview, err := ctrl.ProgressService.GetOverview(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, overview)
}

// GetPortfolio GET /api/progress/portfolio
func (ctrl *ProgressController) GetPortfolio(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	portfolio, err := ctrl.ProgressService.GetPortfolio(claims.UserID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, portfolio)
}
