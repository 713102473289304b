package service

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
)

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *LessonService) CreateLesson(claims *util.Claims, courseID uint, lesson *model.Lesson) error {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return err
	}
	lesson.CourseID = courseID
	return s.LessonRepo.Create(lesson)
}

// GetLesson 课时内容对属主/管理员及已选课学生可见
func (s *LessonService) GetLesson(claims *util.Claims, id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if CanManageCourse(claims, course) {
		return lesson, nil
	}

	enrolled, err := s.EnrollmentRepo.Exists(claims.UserID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return lesson, nil
}

// ListLessons 课程目录；学生需要已选课，属主/管理员直接可见
func (s *LessonService) ListLessons(claims *util.Claims, courseID uint) ([]model.Lesson, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	if !CanManageCourse(claims, course) {
		enrolled, err := s.EnrollmentRepo.Exists(claims.UserID, courseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, util.ErrNotEnrolled
		}
	}
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) UpdateLesson(claims *util.Claims, id uint, updates *model.Lesson) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}
	if _, err := requireCourseOwner(s.CourseRepo, claims, lesson.CourseID); err != nil {
		return nil, err
	}

	if updates.Title != "" {
		lesson.Title = updates.Title
	}
	if updates.Content != "" {
		lesson.Content = updates.Content
	}
	if updates.VideoURL != "" {
		lesson.VideoURL = updates.VideoURL
	}
	if len(updates.Quiz) > 0 {
		lesson.Quiz = updates.Quiz
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(claims *util.Claims, id uint) error {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		return util.ErrLessonNotFound
	}
	if _, err := requireCourseOwner(s.CourseRepo, claims, lesson.CourseID); err != nil {
		return err
	}
	return s.LessonRepo.Delete(id)
}

// ReorderLessons 要求传入课程内全部课时ID的一个排列，整体事务重写 order
func (s *LessonService) ReorderLessons(claims *util.Claims, courseID uint, orderedIDs []uint) error {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return err
	}

	lessons, err := s.LessonRepo.ListByCourse(courseID)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(lessons) {
		return util.Validation("lessonIds must contain every lesson of the course exactly once")
	}

	existing := make(map[uint]bool, len(lessons))
	for _, l := range lessons {
		existing[l.ID] = true
	}
	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !existing[id] || seen[id] {
			return util.Validation("lessonIds must contain every lesson of the course exactly once")
		}
		seen[id] = true
	}

	return s.LessonRepo.Reorder(courseID, orderedIDs)
}
