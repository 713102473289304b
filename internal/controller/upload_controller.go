package controller

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadController struct {
	Storage     service.StorageProvider
	UserService *service.UserService
}

func NewUploadController(storage service.StorageProvider, userService *service.UserService) *UploadController {
	return &UploadController{
		Storage:     storage,
		UserService: userService,
	}
}

// UploadAvatar POST /api/upload/avatar 上传并绑定为当前用户头像
func (ctrl *UploadController) UploadAvatar(c *gin.Context) {
	url, ok := ctrl.saveImage(c, "avatar")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(c)
	if err := ctrl.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Created(c, gin.H{"url": url})
}

// UploadCourseImage POST /api/upload/course-image (教师/管理员)
func (ctrl *UploadController) UploadCourseImage(c *gin.Context) {
	url, ok := ctrl.saveImage(c, "image")
	if !ok {
		return
	}
	util.Created(c, gin.H{"url": url})
}

// UploadLessonFile POST /api/upload/lesson-file (教师/管理员)
func (ctrl *UploadController) UploadLessonFile(c *gin.Context) {
	url, ok := ctrl.saveImage(c, "file")
	if !ok {
		return
	}
	util.Created(c, gin.H{"url": url})
}

// saveImage 校验顺序：大小 -> 扩展名 -> 内容嗅探，全部通过才落盘。
// 校验失败不会在磁盘上留下任何文件。
func (ctrl *UploadController) saveImage(c *gin.Context, field string) (string, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		util.BadRequest(c, fmt.Sprintf("%s file is required", field))
		return "", false
	}

	if fileHeader.Size > util.MaxUploadSize {
		util.BadRequest(c, fmt.Sprintf("file too large, max %d MB", util.MaxUploadSize>>20))
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !util.AllowedImageExtensions[ext] {
		util.BadRequest(c, "unsupported file extension, allowed: jpeg, jpg, png, gif, webp")
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return "", false
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil || !util.AllowedImageMimeTypes[mimeType] {
		util.BadRequest(c, "file content is not a supported image")
		return "", false
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(c, err)
		return "", false
	}

	filename := generateFilename(field, ext)
	url, err := ctrl.Storage.Save(c.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(c, err)
		return "", false
	}

	logger.Log.Info("file uploaded",
		zap.String("field", field),
		zap.String("filename", filename),
		zap.Int64("size", fileHeader.Size),
	)
	return url, true
}

// DeleteFile DELETE /api/upload/:filename (教师/管理员)
func (ctrl *UploadController) DeleteFile(c *gin.Context) {
	filename := c.Param("filename")

	// 文件名不允许带路径成分，防止越权删除
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		util.BadRequest(c, "invalid filename")
		return
	}

	if err := ctrl.Storage.Delete(c.Request.Context(), filename); err != nil {
		util.RespondError(c, err)
		return
	}
	util.Success(c, gin.H{"message": "file deleted"})
}

// generateFilename 生成 {field}-{毫秒时间戳}-{随机数}{扩展名} 形式的唯一文件名
func generateFilename(field, ext string) string {
	return fmt.Sprintf("%s-%d-%d%s", field, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
