package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(userID, lessonID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) Create(progress *model.Progress) error {
	return r.DB.Create(progress).Error
}

// UpdateFields 按字段更新；time_spent 使用 gorm.Expr 原地累加
func (r *ProgressRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.DB.Model(&model.Progress{}).Where("id = ?", id).Updates(updates).Error
}

// CountCompletedForCourse 统计用户在课程内已完成的课时数
func (r *ProgressRepository) CountCompletedForCourse(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND completed = ? AND lesson_id IN (?)",
			userID, true,
			r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID),
		).
		Count(&count).Error
	return count, err
}

// TimeSpentForCourse 用户在课程内累计学习时长（秒）
func (r *ProgressRepository) TimeSpentForCourse(userID, courseID uint) (int, error) {
	var total int
	err := r.DB.Model(&model.Progress{}).
		Where("user_id = ? AND lesson_id IN (?)",
			userID,
			r.DB.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID),
		).
		Select("COALESCE(SUM(time_spent), 0)").
		Scan(&total).Error
	return total, err
}
