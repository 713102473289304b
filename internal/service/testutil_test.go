package service

import (
	"fmt"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/database"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存库；TranslateError 与生产配置保持一致，
// 唯一键冲突同样映射为 gorm.ErrDuplicatedKey。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type testEnv struct {
	DB          *gorm.DB
	Users       *repository.UserRepository
	Courses     *repository.CourseRepository
	Lessons     *repository.LessonRepository
	Enrollments *repository.EnrollmentRepository
	Progress    *repository.ProgressRepository
	Certs       *repository.CertificateRepository
	Analytics   *repository.AnalyticsRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db := newTestDB(t)
	return &testEnv{
		DB:          db,
		Users:       repository.NewUserRepository(db),
		Courses:     repository.NewCourseRepository(db),
		Lessons:     repository.NewLessonRepository(db),
		Enrollments: repository.NewEnrollmentRepository(db),
		Progress:    repository.NewProgressRepository(db),
		Certs:       repository.NewCertificateRepository(db),
		Analytics:   repository.NewAnalyticsRepository(db),
	}
}

func (e *testEnv) createUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@test.local", uuid.NewString()),
		Password: "hashed",
		Role:     role,
	}
	if err := e.Users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createCourse(t *testing.T, teacherID uint, published bool) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:     "Test Course",
		TeacherID: teacherID,
		Published: published,
	}
	if err := e.Courses.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func (e *testEnv) createLesson(t *testing.T, courseID uint, title string) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{CourseID: courseID, Title: title}
	if err := e.Lessons.Create(lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}

func (e *testEnv) enroll(t *testing.T, userID, courseID uint) {
	t.Helper()
	if err := e.Enrollments.Create(&model.Enrollment{UserID: userID, CourseID: courseID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}
}

func claimsFor(user *model.User) *util.Claims {
	return &util.Claims{UserID: user.ID, Role: user.Role}
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
