package service

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
)

// CanManageCourse 能力检查 = 角色门禁 ∧ 所有权判断：管理员放行，教师只能动自己的课程。
// 所有权每次操作时基于课程当前的 teacher_id 重新判断，不缓存。
func CanManageCourse(claims *util.Claims, course *model.Course) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	return claims.Role == model.Teacher && course.TeacherID == claims.UserID
}

// requireCourseOwner 读取课程并做所有权检查，失败返回分类错误
func requireCourseOwner(repo courseFinder, claims *util.Claims, courseID uint) (*model.Course, error) {
	course, err := repo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !CanManageCourse(claims, course) {
		return nil, util.ErrNotCourseOwner
	}
	return course, nil
}

type courseFinder interface {
	FindByID(id uint) (*model.Course, error)
}
