package service

import (
	"math"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
)

// activeWindow 统计"活跃学生"的回看窗口
const activeWindow = 7 * 24 * time.Hour

type AnalyticsService struct {
	AnalyticsRepo *repository.AnalyticsRepository
	CourseRepo    *repository.CourseRepository
	LessonRepo    *repository.LessonRepository
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo: analyticsRepo,
		CourseRepo:    courseRepo,
		LessonRepo:    lessonRepo,
	}
}

// GetCourseAnalytics 课程统计：选课数、近7天活跃学生、平均进度、完成度直方图。
// 课程无课时的时候所有学生进度按 0 计。
func (s *AnalyticsService) GetCourseAnalytics(claims *util.Claims, courseID uint) (*model.CourseAnalytics, error) {
	if _, err := requireCourseOwner(s.CourseRepo, claims, courseID); err != nil {
		return nil, err
	}

	enrolled, err := s.AnalyticsRepo.EnrolledCount(courseID)
	if err != nil {
		return nil, err
	}
	active, err := s.AnalyticsRepo.ActiveStudentCount(courseID, time.Now().Add(-activeWindow))
	if err != nil {
		return nil, err
	}
	totalLessons, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	completions, err := s.AnalyticsRepo.CompletionCounts(courseID)
	if err != nil {
		return nil, err
	}

	analytics := &model.CourseAnalytics{
		CourseID:       courseID,
		EnrolledCount:  enrolled,
		ActiveStudents: active,
		Histogram:      emptyHistogram(),
	}

	if len(completions) == 0 {
		return analytics, nil
	}

	var sum float64
	for _, c := range completions {
		percent := 0.0
		if totalLessons > 0 {
			percent = float64(c.Completed) / float64(totalLessons) * 100
		}
		sum += percent
		bucketFor(analytics.Histogram, percent)
	}
	analytics.AverageProgress = math.Round(sum/float64(len(completions))*10) / 10

	return analytics, nil
}

func emptyHistogram() []model.ProgressBucket {
	return []model.ProgressBucket{
		{Label: "0%"},
		{Label: "1-25%"},
		{Label: "26-50%"},
		{Label: "51-75%"},
		{Label: "76-99%"},
		{Label: "100%"},
	}
}

// bucketFor 把单个学生的完成百分比落入直方图区间
func bucketFor(buckets []model.ProgressBucket, percent float64) {
	switch {
	case percent <= 0:
		buckets[0].Count++
	case percent <= 25:
		buckets[1].Count++
	case percent <= 50:
		buckets[2].Count++
	case percent <= 75:
		buckets[3].Count++
	case percent < 100:
		buckets[4].Count++
	default:
		buckets[5].Count++
	}
}
