package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Find(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) Exists(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// DeleteCascade 删除选课记录并级联清理该用户在这门课所有课时上的进度。
// 两个删除在同一事务中提交，不会留下孤儿进度行。
func (r *EnrollmentRepository) DeleteCascade(userID, courseID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND course_id = ?", userID, courseID).
			Delete(&model.Enrollment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("user_id = ? AND lesson_id IN (?)",
			userID,
			tx.Model(&model.Lesson{}).Select("id").Where("course_id = ?", courseID),
		).Delete(&model.Progress{}).Error
	})
}

func (r *EnrollmentRepository) ListByCourse(courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	var enrollments []model.Enrollment
	var total int64

	query := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).
		Preload("Course").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) EnrolledUserIDs(courseID uint, userIDs []uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id IN ?", courseID, userIDs).
		Pluck("user_id", &ids).Error
	return ids, err
}
