package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

// Create 依赖 (user_id, course_id) 唯一索引；并发重复插入返回 gorm.ErrDuplicatedKey
func (r *CertificateRepository) Create(cert *model.Certificate) error {
	return r.DB.Create(cert).Error
}

func (r *CertificateRepository) FindByUserCourse(userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&cert).Error
	return &cert, err
}

func (r *CertificateRepository) FindByID(id uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("User").Preload("Course").First(&cert, id).Error
	return &cert, err
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Where("user_id = ?", userID).
		Preload("Course").
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

func (r *CertificateRepository) ExistsForUserCourse(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}
