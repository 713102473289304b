package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=STUDENT TEACHER ADMIN"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=STUDENT TEACHER ADMIN"`
	Avatar   string `json:"avatar"`
}

// GetUsers GET /api/users (管理员)
func (ctrl *UserController) GetUsers(c *gin.Context) {
	page, limit := util.ParsePagination(c)
	filter := service.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	users, total, err := ctrl.UserService.GetUsers(page, limit, filter)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Paginated(c, users, page, limit, total)
}

// GetUser GET /api/users/:id (管理员)
func (ctrl *UserController) GetUser(c *gin.Context) {
	user, err := ctrl.UserService.GetUserByID(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, user)
}

// CreateUser POST /api/users (管理员)
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "name, email, password (min 6 chars) and role are required")
		return
	}

	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  model.UserRole(req.Role),
	}
	if err := ctrl.UserService.CreateUser(user, req.Password); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, user)
}

// UpdateUser PUT /api/users/:id (管理员)
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "invalid user payload")
		return
	}

	user, err := ctrl.UserService.UpdateUser(
		util.MustParseUint(c.Param("id")),
		req.Name, req.Email, req.Role, req.Password, req.Avatar,
	)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, user)
}

// DeleteUser DELETE /api/users/:id (管理员)
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id := util.MustParseUint(c.Param("id"))

	// 管理员不能删除自己，防止把最后一个管理员锁在门外
	claims := util.GetUserFromContext(c)
	if claims != nil && claims.UserID == id {
		util.BadRequest(c, "cannot delete your own account")
		return
	}

	if err := ctrl.UserService.DeleteUser(id); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "user deleted"})
}
