package service

import (
	"errors"
	"math"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UpdateProgressRequest 进度更新载荷。
// Completed 为三态：nil 表示不动；TimeSpent 是本次增量，累加到已有值上。
type UpdateProgressRequest struct {
	Completed *bool    `json:"completed"`
	TimeSpent int      `json:"timeSpent" binding:"gte=0"`
	QuizScore *float64 `json:"quizScore"`
}

// ProgressUpdateResult 单次更新的完整结果：进度行、课程汇总、可能新签发的证书
type ProgressUpdateResult struct {
	Progress       *model.Progress              `json:"progress"`
	CourseProgress *model.CourseProgressSummary `json:"courseProgress"`
	Certificate    *model.Certificate           `json:"certificate,omitempty"`
}

type ProgressService struct {
	ProgressRepo    *repository.ProgressRepository
	LessonRepo      *repository.LessonRepository
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	CertificateRepo *repository.CertificateRepository
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	certificateRepo *repository.CertificateRepository,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:    progressRepo,
		LessonRepo:      lessonRepo,
		CourseRepo:      courseRepo,
		EnrollmentRepo:  enrollmentRepo,
		CertificateRepo: certificateRepo,
	}
}

// UpdateLessonProgress 进度 upsert：
//   - completed 显式传入才生效，false->true 时写 completedAt，true->false 时清空
//   - timeSpent 只累加不覆盖
//   - quizScore 传入即整体替换
//
// 写入后重算课程完成度，全部完成时幂等签发证书。
func (s *ProgressService) UpdateLessonProgress(userID, lessonID uint, req UpdateProgressRequest) (*ProgressUpdateResult, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	enrolled, err := s.EnrollmentRepo.Exists(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	progress, err := s.upsertProgress(userID, lessonID, req)
	if err != nil {
		return nil, err
	}

	summary, err := s.courseSummary(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	result := &ProgressUpdateResult{Progress: progress, CourseProgress: summary}

	if summary.TotalLessons > 0 && summary.CompletedLessons == summary.TotalLessons {
		cert, issued, err := s.issueCertificate(userID, lesson.CourseID)
		if err != nil {
			return nil, err
		}
		result.Certificate = cert
		summary.HasCertificate = true
		if issued {
			logger.Log.Info("certificate issued",
				zap.Uint("userId", userID),
				zap.Uint("courseId", lesson.CourseID),
				zap.String("serial", cert.SerialNumber),
			)
			monitoring.CertificatesIssued.Inc()
		}
	}

	return result, nil
}

// upsertProgress 首次更新建行；并发建行撞唯一键时回读后走更新路径
func (s *ProgressService) upsertProgress(userID, lessonID uint, req UpdateProgressRequest) (*model.Progress, error) {
	progress, err := s.ProgressRepo.Find(userID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		fresh := &model.Progress{
			UserID:    userID,
			LessonID:  lessonID,
			TimeSpent: req.TimeSpent,
			QuizScore: req.QuizScore,
		}
		if req.Completed != nil && *req.Completed {
			fresh.Completed = true
			fresh.CompletedAt = &now
		}

		if err := s.ProgressRepo.Create(fresh); err == nil {
			return fresh, nil
		} else if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// 并发创建：回读已有行，按更新处理
		progress, err = s.ProgressRepo.Find(userID, lessonID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.TimeSpent > 0 {
		updates["time_spent"] = gorm.Expr("time_spent + ?", req.TimeSpent)
	}
	if req.QuizScore != nil {
		updates["quiz_score"] = *req.QuizScore
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
		if *req.Completed && !progress.Completed {
			updates["completed_at"] = time.Now()
		} else if !*req.Completed {
			updates["completed_at"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.ProgressRepo.UpdateFields(progress.ID, updates); err != nil {
			return nil, err
		}
	}
	return s.ProgressRepo.Find(userID, lessonID)
}

// issueCertificate 幂等签发：INSERT 撞 (user, course) 唯一键则回读已有证书。
// 唯一索引是并发下"恰好一张"的唯一保证，不做先查后插。
func (s *ProgressService) issueCertificate(userID, courseID uint) (*model.Certificate, bool, error) {
	cert := &model.Certificate{UserID: userID, CourseID: courseID}
	err := s.CertificateRepo.Create(cert)
	if err == nil {
		return cert, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	existing, err := s.CertificateRepo.FindByUserCourse(userID, courseID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *ProgressService) courseSummary(userID, courseID uint) (*model.CourseProgressSummary, error) {
	total, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.ProgressRepo.CountCompletedForCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	timeSpent, err := s.ProgressRepo.TimeSpentForCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &model.CourseProgressSummary{
		CourseID:         courseID,
		TotalLessons:     total,
		CompletedLessons: completed,
		Percent:          percent,
		TimeSpent:        timeSpent,
	}, nil
}

// GetOverview 用户已选全部课程的进度汇总
func (s *ProgressService) GetOverview(userID uint) ([]model.CourseProgressSummary, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.CourseProgressSummary, 0, len(enrollments))
	for _, e := range enrollments {
		summary, err := s.courseSummary(userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		if e.Course != nil {
			summary.CourseTitle = e.Course.Title
		}
		hasCert, err := s.CertificateRepo.ExistsForUserCourse(userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		summary.HasCertificate = hasCert
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// Portfolio 学习档案：进度汇总 + 已获证书
type Portfolio struct {
	Courses      []model.CourseProgressSummary `json:"courses"`
	Certificates []model.Certificate           `json:"certificates"`
}

func (s *ProgressService) GetPortfolio(userID uint) (*Portfolio, error) {
	courses, err := s.GetOverview(userID)
	if err != nil {
		return nil, err
	}
	certs, err := s.CertificateRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return &Portfolio{Courses: courses, Certificates: certs}, nil
}
