package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Teacher").First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete 删除课程及其课时、选课和进度记录；事务保证不留孤儿行。
// 已签发的证书保留（属于学生的完成凭证，不随课程下架作废）。
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).
			Where("course_id = ?", id).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).
				Delete(&model.Progress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}
