package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

type lessonRequest struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	VideoURL string         `json:"videoUrl"`
	Quiz     datatypes.JSON `json:"quiz"`
}

type reorderRequest struct {
	LessonIDs []uint `json:"lessonIds" binding:"required"`
}

// ListLessons GET /api/courses/:id/lessons
func (ctrl *LessonController) ListLessons(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	lessons, err := ctrl.LessonService.ListLessons(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, lessons)
}

// CreateLesson POST /api/courses/:id/lessons (属主/管理员)
func (ctrl *LessonController) CreateLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		util.BadRequest(c, "title is required")
		return
	}

	lesson := &model.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Quiz:     req.Quiz,
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.LessonService.CreateLesson(claims, util.MustParseUint(c.Param("id")), lesson); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, lesson)
}

// ReorderLessons PUT /api/courses/:id/lessons/reorder (属主/管理员)
func (ctrl *LessonController) ReorderLessons(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "lessonIds is required")
		return
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.LessonService.ReorderLessons(claims, util.MustParseUint(c.Param("id")), req.LessonIDs); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "lessons reordered"})
}

// GetLesson GET /api/lessons/:id
func (ctrl *LessonController) GetLesson(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.GetLesson(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, lesson)
}

// UpdateLesson PUT /api/lessons/:id (属主/管理员)
func (ctrl *LessonController) UpdateLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "invalid lesson payload")
		return
	}

	updates := &model.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Quiz:     req.Quiz,
	}

	claims := util.GetUserFromContext(c)
	lesson, err := ctrl.LessonService.UpdateLesson(claims, util.MustParseUint(c.Param("id")), updates)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, lesson)
}

// DeleteLesson DELETE /api/lessons/:id (属主/管理员)
func (ctrl *LessonController) DeleteLesson(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.LessonService.DeleteLesson(claims, util.MustParseUint(c.Param("id"))); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "lesson deleted"})
}
