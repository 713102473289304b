package service

import (
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
)

func newProgressService(e *testEnv) *ProgressService {
	return NewProgressService(e.Progress, e.Lessons, e.Courses, e.Enrollments, e.Certs)
}

func TestUpdateProgressRequiresEnrollment(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "Lesson 1")

	_, err := svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{TimeSpent: 10})
	if !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("expected forbidden for unenrolled student, got %v", err)
	}
}

func TestUpdateProgressTimeSpentAccumulates(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "Lesson 1")
	e.createLesson(t, course.ID, "Lesson 2")
	e.enroll(t, student.ID, course.ID)

	if _, err := svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{TimeSpent: 30}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	result, err := svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{TimeSpent: 45})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if result.Progress.TimeSpent != 75 {
		t.Errorf("timeSpent = %d, want 75 (accumulated)", result.Progress.TimeSpent)
	}
	if result.CourseProgress.TimeSpent != 75 {
		t.Errorf("course timeSpent = %d, want 75", result.CourseProgress.TimeSpent)
	}
}

func TestUpdateProgressCompletedAtLifecycle(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "Lesson 1")
	e.createLesson(t, course.ID, "Lesson 2")
	e.enroll(t, student.ID, course.ID)

	// completed 未传入时不应建立完成状态
	result, err := svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{TimeSpent: 5})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.Progress.Completed || result.Progress.CompletedAt != nil {
		t.Fatal("completed state should not change when field is omitted")
	}

	// false -> true 写入时间戳
	result, err = svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{Completed: boolPtr(true)})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !result.Progress.Completed || result.Progress.CompletedAt == nil {
		t.Fatal("expected completed=true with completedAt set")
	}
	firstCompletedAt := *result.Progress.CompletedAt

	// 重复置 true 不刷新时间戳
	result, err = svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{Completed: boolPtr(true), TimeSpent: 10})
	if err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if result.Progress.CompletedAt == nil || !result.Progress.CompletedAt.Equal(firstCompletedAt) {
		t.Error("completedAt should not move on repeated completion")
	}

	// 显式取消完成则清空
	result, err = svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if result.Progress.Completed || result.Progress.CompletedAt != nil {
		t.Error("expected completed=false with completedAt cleared")
	}
}

func TestUpdateProgressQuizScoreReplaced(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "Lesson 1")
	e.createLesson(t, course.ID, "Lesson 2")
	e.enroll(t, student.ID, course.ID)

	if _, err := svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{QuizScore: floatPtr(60)}); err != nil {
		t.Fatalf("first score: %v", err)
	}
	result, err := svc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{QuizScore: floatPtr(85)})
	if err != nil {
		t.Fatalf("second score: %v", err)
	}
	if result.Progress.QuizScore == nil || *result.Progress.QuizScore != 85 {
		t.Errorf("quizScore = %v, want 85 (replaced, not accumulated)", result.Progress.QuizScore)
	}
}

func TestCourseProgressPercentage(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	l1 := e.createLesson(t, course.ID, "Lesson 1")
	l2 := e.createLesson(t, course.ID, "Lesson 2")
	l3 := e.createLesson(t, course.ID, "Lesson 3")
	l4 := e.createLesson(t, course.ID, "Lesson 4")
	e.enroll(t, student.ID, course.ID)

	done := UpdateProgressRequest{Completed: boolPtr(true)}
	for _, l := range []*model.Lesson{l1, l2, l3} {
		if _, err := svc.UpdateLessonProgress(student.ID, l.ID, done); err != nil {
			t.Fatalf("complete lesson %d: %v", l.ID, err)
		}
	}

	result, err := svc.UpdateLessonProgress(student.ID, l3.ID, UpdateProgressRequest{TimeSpent: 1})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.CourseProgress.Percent != 75 {
		t.Errorf("percent = %d, want 75 (3 of 4 lessons)", result.CourseProgress.Percent)
	}
	if result.Certificate != nil {
		t.Error("certificate must not be issued before all lessons are done")
	}

	result, err = svc.UpdateLessonProgress(student.ID, l4.ID, done)
	if err != nil {
		t.Fatalf("final lesson: %v", err)
	}
	if result.CourseProgress.Percent != 100 {
		t.Errorf("percent = %d, want 100", result.CourseProgress.Percent)
	}
	if result.Certificate == nil {
		t.Fatal("expected certificate on full completion")
	}
	if result.Certificate.SerialNumber == "" {
		t.Error("certificate must carry a serial number")
	}
}

func TestCertificateIssuedExactlyOnce(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "Only Lesson")
	e.enroll(t, student.ID, course.ID)

	done := UpdateProgressRequest{Completed: boolPtr(true)}
	first, err := svc.UpdateLessonProgress(student.ID, lesson.ID, done)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if first.Certificate == nil {
		t.Fatal("expected certificate on completion")
	}

	// 重放完成请求：仍返回同一张证书，不会新建
	replay, err := svc.UpdateLessonProgress(student.ID, lesson.ID, done)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.Certificate == nil {
		t.Fatal("replay should still return the certificate")
	}
	if replay.Certificate.SerialNumber != first.Certificate.SerialNumber {
		t.Error("replay must return the original certificate, not a new one")
	}

	var count int64
	if err := e.DB.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count certificates: %v", err)
	}
	if count != 1 {
		t.Errorf("certificate count = %d, want exactly 1", count)
	}
}

func TestGetOverview(t *testing.T) {
	e := newTestEnv(t)
	svc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	c1 := e.createCourse(t, teacher.ID, true)
	c2 := e.createCourse(t, teacher.ID, true)
	l1 := e.createLesson(t, c1.ID, "L1")
	e.createLesson(t, c1.ID, "L2")
	e.createLesson(t, c2.ID, "L3")
	e.enroll(t, student.ID, c1.ID)
	e.enroll(t, student.ID, c2.ID)

	if _, err := svc.UpdateLessonProgress(student.ID, l1.ID, UpdateProgressRequest{Completed: boolPtr(true), TimeSpent: 120}); err != nil {
		t.Fatalf("update: %v", err)
	}

	overview, err := svc.GetOverview(student.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(overview) != 2 {
		t.Fatalf("overview entries = %d, want 2", len(overview))
	}

	byCourse := map[uint]model.CourseProgressSummary{}
	for _, s := range overview {
		byCourse[s.CourseID] = s
	}
	if got := byCourse[c1.ID]; got.CompletedLessons != 1 || got.Percent != 50 || got.TimeSpent != 120 {
		t.Errorf("course 1 summary = %+v, want 1 completed / 50%% / 120s", got)
	}
	if got := byCourse[c2.ID]; got.CompletedLessons != 0 || got.Percent != 0 {
		t.Errorf("course 2 summary = %+v, want untouched", got)
	}
}
