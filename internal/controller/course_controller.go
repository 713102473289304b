package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService    *service.CourseService
	AnalyticsService *service.AnalyticsService
}

func NewCourseController(courseService *service.CourseService, analyticsService *service.AnalyticsService) *CourseController {
	return &CourseController{
		CourseService:    courseService,
		AnalyticsService: analyticsService,
	}
}

type courseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    int    `json:"duration" binding:"omitempty,gte=0"`
	Published   bool   `json:"published"`
	ImageURL    string `json:"imageUrl"`
	TeacherID   uint   `json:"teacherId"` // 仅管理员可指定
}

// updateCourseRequest Published 用指针承载三态：字段缺省时不改动发布状态
type updateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Duration    int    `json:"duration" binding:"omitempty,gte=0"`
	Published   *bool  `json:"published"`
	ImageURL    string `json:"imageUrl"`
}

type batchEnrollRequest struct {
	UserIDs []uint `json:"userIds" binding:"required"`
}

// GetCourses GET /api/courses
func (ctrl *CourseController) GetCourses(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	filter := service.CourseFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	claims := util.GetUserFromContext(c)
	courses, total, err := ctrl.CourseService.GetCourses(claims, page, limit, filter)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Paginated(c, courses, page, limit, total)
}

// GetCourse GET /api/courses/:id
func (ctrl *CourseController) GetCourse(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	course, err := ctrl.CourseService.GetCourse(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, course)
}

// CreateCourse POST /api/courses (教师/管理员)
func (ctrl *CourseController) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		util.BadRequest(c, "title is required")
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		Published:   req.Published,
		ImageURL:    req.ImageURL,
		TeacherID:   req.TeacherID,
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.CourseService.CreateCourse(claims, course); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, course)
}

// UpdateCourse PUT /api/courses/:id (属主/管理员)
func (ctrl *CourseController) UpdateCourse(c *gin.Context) {
	var req updateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "invalid course payload")
		return
	}

	updates := service.UpdateCourseRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Duration:    req.Duration,
		Published:   req.Published,
		ImageURL:    req.ImageURL,
	}

	claims := util.GetUserFromContext(c)
	course, err := ctrl.CourseService.UpdateCourse(claims, util.MustParseUint(c.Param("id")), updates)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, course)
}

// DeleteCourse DELETE /api/courses/:id (属主/管理员)
func (ctrl *CourseController) DeleteCourse(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.CourseService.DeleteCourse(claims, util.MustParseUint(c.Param("id"))); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "course deleted"})
}

// Enroll POST /api/courses/:id/enroll
func (ctrl *CourseController) Enroll(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	enrollment, err := ctrl.CourseService.Enroll(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, enrollment)
}

// Unenroll DELETE /api/courses/:id/enroll
func (ctrl *CourseController) Unenroll(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if err := ctrl.CourseService.Unenroll(claims.UserID, util.MustParseUint(c.Param("id"))); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "unenrolled"})
}

// GetStudents GET /api/courses/:id/students (属主/管理员)
func (ctrl *CourseController) GetStudents(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	claims := util.GetUserFromContext(c)

	enrollments, total, err := ctrl.CourseService.GetStudents(claims, util.MustParseUint(c.Param("id")), page, limit)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Paginated(c, enrollments, page, limit, total)
}

// RemoveStudent DELETE /api/courses/:id/students/:userId (属主/管理员)
func (ctrl *CourseController) RemoveStudent(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	err := ctrl.CourseService.RemoveStudent(claims,
		util.MustParseUint(c.Param("id")),
		util.MustParseUint(c.Param("userId")),
	)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "student removed"})
}

// BatchEnroll POST /api/courses/:id/students/batch (属主/管理员)
func (ctrl *CourseController) BatchEnroll(c *gin.Context) {
	var req batchEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "userIds is required")
		return
	}

	claims := util.GetUserFromContext(c)
	result, err := ctrl.CourseService.BatchEnroll(claims, util.MustParseUint(c.Param("id")), req.UserIDs)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, result)
}

// GetEnrollableUsers GET /api/courses/:id/enrollable-users (属主/管理员)
func (ctrl *CourseController) GetEnrollableUsers(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	claims := util.GetUserFromContext(c)

	users, total, err := ctrl.CourseService.GetEnrollableUsers(claims,
		util.MustParseUint(c.Param("id")), c.Query("search"), page, limit)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Paginated(c, users, page, limit, total)
}

// GetAnalytics GET /api/courses/:id/analytics (属主/管理员)
func (ctrl *CourseController) GetAnalytics(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	analytics, err := ctrl.AnalyticsService.GetCourseAnalytics(claims, util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, analytics)
}
