package service

import (
	"errors"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// CourseFilter 课程列表筛选条件
type CourseFilter struct {
	Search   string
	Category string
}

// BatchEnrollResult 批量选课的分组统计
type BatchEnrollResult struct {
	EnrolledCount        int    `json:"enrolledCount"`
	AlreadyEnrolledCount int    `json:"alreadyEnrolledCount"`
	SkippedCount         int    `json:"skippedCount"`
	EnrolledIDs          []uint `json:"enrolledIds"`
}

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
	}
}

// GetCourses 角色视角的课程列表：学生看已发布，教师看自己的，管理员看全部
func (s *CourseService) GetCourses(claims *util.Claims, page, limit int, filter CourseFilter) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := s.CourseRepo.DB.Model(&model.Course{})

	switch claims.Role {
	case model.Admin:
		// 全量
	case model.Teacher:
		query = query.Where("teacher_id = ?", claims.UserID)
	default:
		query = query.Where("published = ?", true)
	}

	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Teacher").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

// GetCourse 未发布课程只有属主/管理员可见
func (s *CourseService) GetCourse(claims *util.Claims, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published && !CanManageCourse(claims, course) {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

// CreateCourse 教师建课归自己；管理员可以代任意教师建课
func (s *CourseService) CreateCourse(claims *util.Claims, course *model.Course) error {
	if claims.Role != model.Admin || course.TeacherID == 0 {
		course.TeacherID = claims.UserID
	}
	if claims.Role == model.Admin && course.TeacherID != claims.UserID {
		teacher, err := s.UserRepo.FindByID(course.TeacherID)
		if err != nil {
			return util.Validation("teacher does not exist")
		}
		if teacher.Role != model.Teacher && teacher.Role != model.Admin {
			return util.Validation("owner must have teacher role")
		}
	}
	return s.CourseRepo.Create(course)
}

// UpdateCourseRequest 部分更新载荷；Published 为三态，nil 表示保持现状
type UpdateCourseRequest struct {
	Title       string
	Description string
	Category    string
	Duration    int
	ImageURL    string
	Published   *bool
}

func (s *CourseService) UpdateCourse(claims *util.Claims, id uint, updates UpdateCourseRequest) (*model.Course, error) {
	course, err := requireCourseOwner(s.CourseRepo, claims, id)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		course.Title = updates.Title
	}
	if updates.Description != "" {
		course.Description = updates.Description
	}
	if updates.Category != "" {
		course.Category = updates.Category
	}
	if updates.Duration > 0 {
		course.Duration = updates.Duration
	}
	if updates.ImageURL != "" {
		course.ImageURL = updates.ImageURL
	}
	if updates.Published != nil {
		course.Published = *updates.Published
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(claims *util.Claims, id uint) error {
	if _, err := requireCourseOwner(s.CourseRepo, claims, id); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

// Enroll 自助选课；(user, course) 唯一，重复返回 Conflict
func (s *CourseService) Enroll(claims *util.Claims, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if !course.Published && !CanManageCourse(claims, course) {
		return nil, util.ErrCourseNotFound
	}

	enrollment := &model.Enrollment{UserID: claims.UserID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// Unenroll 退课并级联删除本人在该课程的进度（单事务）。
// 没有选课记录时按资源不存在处理。
func (s *CourseService) Unenroll(userID, courseID uint) error {
	if err := s.EnrollmentRepo.DeleteCascade(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentMissing
		}
		return err
	}
	return nil
}

// GetStudents 课程名册，属主/管理员可见
func (s *CourseService) GetStudents(claims *util.Claims, courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return nil, 0, err
	}
	return s.EnrollmentRepo.ListByCourse(courseID, page, limit)
}

// RemoveStudent 移除学生并级联清进度
func (s *CourseService) RemoveStudent(claims *util.Claims, courseID, userID uint) error {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return err
	}
	if err := s.EnrollmentRepo.DeleteCascade(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentMissing
		}
		return err
	}
	return nil
}

// BatchEnroll 批量选课：分组为"新选课 / 已选课 / 跳过"。
// 教师只能批量添加学生账号；管理员不受角色限制。
func (s *CourseService) BatchEnroll(claims *util.Claims, courseID uint, userIDs []uint) (*BatchEnrollResult, error) {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, util.Validation("userIds must not be empty")
	}

	users, err := s.UserRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	eligible := make([]uint, 0, len(users))
	skipped := len(userIDs) - len(users) // 不存在的ID直接跳过
	for _, u := range users {
		if claims.Role != model.Admin && u.Role != model.Student {
			skipped++
			continue
		}
		eligible = append(eligible, u.ID)
	}

	result := &BatchEnrollResult{SkippedCount: skipped, EnrolledIDs: []uint{}}
	if len(eligible) == 0 {
		return result, nil
	}

	already, err := s.EnrollmentRepo.EnrolledUserIDs(courseID, eligible)
	if err != nil {
		return nil, err
	}
	alreadySet := make(map[uint]bool, len(already))
	for _, id := range already {
		alreadySet[id] = true
	}
	result.AlreadyEnrolledCount = len(already)

	for _, id := range eligible {
		if alreadySet[id] {
			continue
		}
		err := s.EnrollmentRepo.Create(&model.Enrollment{UserID: id, CourseID: courseID})
		if err != nil {
			// 并发下重复键按"已选课"计
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.AlreadyEnrolledCount++
				continue
			}
			return nil, err
		}
		result.EnrolledCount++
		result.EnrolledIDs = append(result.EnrolledIDs, id)
	}

	return result, nil
}

// GetEnrollableUsers 还未选这门课的学生（供批量添加选择）
func (s *CourseService) GetEnrollableUsers(claims *util.Claims, courseID uint, search string, page, limit int) ([]model.User, int64, error) {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return nil, 0, err
	}

	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{}).
		Where("role = ?", model.Student).
		Where("id NOT IN (?)",
			s.UserRepo.DB.Model(&model.Enrollment{}).Select("user_id").Where("course_id = ?", courseID),
		)

	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	return users, total, err
}
