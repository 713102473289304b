package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

// Create 在事务中追加到课程末尾：order = max(order) + 1
func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if lesson.Order == 0 {
			var maxOrder int
			if err := tx.Model(&model.Lesson{}).
				Where("course_id = ?", lesson.CourseID).
				Select("COALESCE(MAX(lesson_order), 0)").
				Scan(&maxOrder).Error; err != nil {
				return err
			}
			lesson.Order = maxOrder + 1
		}
		return tx.Create(lesson).Error
	})
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// Delete 删除课时并清掉它的进度记录
func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lesson{}, id).Error
	})
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("lesson_order ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// Reorder 按给定顺序整体重写课程内所有课时的 order。
// 单事务提交，避免中间状态对外可见。
func (r *LessonRepository) Reorder(courseID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&model.Lesson{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("lesson_order", i+1)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
