package service

import (
	"errors"
	"fmt"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
}

func NewCertificateService(certificateRepo *repository.CertificateRepository) *CertificateService {
	return &CertificateService{CertificateRepo: certificateRepo}
}

func (s *CertificateService) ListMine(userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(userID)
}

// GetCertificate 证书本人或管理员可见
func (s *CertificateService) GetCertificate(claims *util.Claims, id uint) (*model.Certificate, error) {
	cert, err := s.CertificateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("certificate not found: %w", util.ErrNotFound)
		}
		return nil, err
	}
	if cert.UserID != claims.UserID && claims.Role != model.Admin {
		return nil, fmt.Errorf("certificate belongs to another user: %w", util.ErrForbidden)
	}
	return cert, nil
}

// CertificateDocument 可下载的证书数据。PDF 渲染由前端完成，
// 后端只负责给出渲染所需的权威字段。
type CertificateDocument struct {
	SerialNumber string `json:"serialNumber"`
	StudentName  string `json:"studentName"`
	CourseTitle  string `json:"courseTitle"`
	IssuedAt     string `json:"issuedAt"`
}

func (s *CertificateService) GetDocument(claims *util.Claims, id uint) (*CertificateDocument, error) {
	cert, err := s.GetCertificate(claims, id)
	if err != nil {
		return nil, err
	}

	doc := &CertificateDocument{
		SerialNumber: cert.SerialNumber,
		IssuedAt:     cert.IssuedAt.Format(util.DateFormat),
	}
	if cert.User != nil {
		doc.StudentName = cert.User.Name
	}
	if cert.Course != nil {
		doc.CourseTitle = cert.Course.Title
	}
	return doc, nil
}
