package repository

import (
	"time"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) EnrolledCount(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// ActiveStudentCount 最近 since 之后完成过该课程任一课时的学生数
func (r *AnalyticsRepository) ActiveStudentCount(courseID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("completed = ? AND completed_at >= ?", true, since).
		Where("lesson_id IN (?)",
			r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID),
		).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// UserCompletion 每个选课学生的已完成课时数
type UserCompletion struct {
	UserID    uint
	Completed int64
}

// CompletionCounts 选课学生 -> 已完成课时数（没有进度的学生计 0）
func (r *AnalyticsRepository) CompletionCounts(courseID uint) ([]UserCompletion, error) {
	var rows []UserCompletion
	err := r.DB.Raw(`
		SELECT e.user_id AS user_id, COUNT(p.id) AS completed
		FROM enrollments e
		LEFT JOIN lessons l
			ON l.course_id = e.course_id AND l.deleted_at IS NULL
		LEFT JOIN progress p
			ON p.lesson_id = l.id AND p.user_id = e.user_id AND p.completed = ?
		WHERE e.course_id = ?
		GROUP BY e.user_id`, true, courseID).
		Scan(&rows).Error
	return rows, err
}
