package service

import (
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
)

func newCourseService(e *testEnv) *CourseService {
	return NewCourseService(e.Courses, e.Enrollments, e.Users)
}

func TestGetCoursesRoleVisibility(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	other := e.createUser(t, "other teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	admin := e.createUser(t, "admin", model.Admin)

	e.createCourse(t, teacher.ID, true)
	e.createCourse(t, teacher.ID, false) // 未发布
	e.createCourse(t, other.ID, true)

	cases := []struct {
		name  string
		user  *model.User
		count int
	}{
		{"student sees published only", student, 2},
		{"teacher sees own courses", teacher, 2},
		{"admin sees everything", admin, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			courses, total, err := svc.GetCourses(claimsFor(tc.user), 1, 20, CourseFilter{})
			if err != nil {
				t.Fatalf("GetCourses: %v", err)
			}
			if len(courses) != tc.count || total != int64(tc.count) {
				t.Errorf("got %d courses (total %d), want %d", len(courses), total, tc.count)
			}
		})
	}
}

func TestGetCourseUnpublishedHidden(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	draft := e.createCourse(t, teacher.ID, false)

	if _, err := svc.GetCourse(claimsFor(student), draft.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("student fetching draft: err = %v, want not found", err)
	}
	if _, err := svc.GetCourse(claimsFor(teacher), draft.ID); err != nil {
		t.Errorf("owner fetching draft: %v", err)
	}
}

func TestUpdateCourseOwnershipEnforced(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	owner := e.createUser(t, "owner", model.Teacher)
	intruder := e.createUser(t, "intruder", model.Teacher)
	admin := e.createUser(t, "admin", model.Admin)
	course := e.createCourse(t, owner.ID, true)

	_, err := svc.UpdateCourse(claimsFor(intruder), course.ID, UpdateCourseRequest{Title: "Hijacked"})
	if !errors.Is(err, util.ErrForbidden) {
		t.Errorf("other teacher updating course: err = %v, want forbidden", err)
	}

	if _, err := svc.UpdateCourse(claimsFor(admin), course.ID, UpdateCourseRequest{Title: "Admin edit"}); err != nil {
		t.Errorf("admin updating any course: %v", err)
	}
}

func TestUpdateCoursePartialPayloadKeepsPublished(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	course := e.createCourse(t, teacher.ID, true)

	// 只改标题，发布状态不能被连带重置
	updated, err := svc.UpdateCourse(claimsFor(teacher), course.ID, UpdateCourseRequest{Title: "New title"})
	if err != nil {
		t.Fatalf("title-only update: %v", err)
	}
	if !updated.Published {
		t.Error("title-only update must not change Published")
	}

	// 显式传 false 才下架
	updated, err = svc.UpdateCourse(claimsFor(teacher), course.ID, UpdateCourseRequest{Published: boolPtr(false)})
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if updated.Published {
		t.Error("explicit published=false must unpublish")
	}

	// 再显式传 true 重新上架
	updated, err = svc.UpdateCourse(claimsFor(teacher), course.ID, UpdateCourseRequest{Published: boolPtr(true)})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !updated.Published {
		t.Error("explicit published=true must publish")
	}
}

func TestEnrollDuplicateConflict(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)

	if _, err := svc.Enroll(claimsFor(student), course.ID); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if _, err := svc.Enroll(claimsFor(student), course.ID); !errors.Is(err, util.ErrConflict) {
		t.Errorf("duplicate enroll: err = %v, want conflict", err)
	}
}

func TestUnenrollCascadesProgress(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)
	progressSvc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "L1")
	e.createLesson(t, course.ID, "L2")
	e.enroll(t, student.ID, course.ID)

	if _, err := progressSvc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("progress: %v", err)
	}

	if err := svc.Unenroll(student.ID, course.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}

	var count int64
	if err := e.DB.Model(&model.Progress{}).Where("user_id = ?", student.ID).Count(&count).Error; err != nil {
		t.Fatalf("count progress: %v", err)
	}
	if count != 0 {
		t.Errorf("progress rows after unenroll = %d, want 0", count)
	}

	if err := svc.Unenroll(student.ID, course.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("double unenroll: err = %v, want not found (no enrollment)", err)
	}
}

func TestRemoveStudentMissingEnrollment(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)

	if err := svc.RemoveStudent(claimsFor(teacher), course.ID, student.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("removing a student who never enrolled: err = %v, want not found", err)
	}
}

func TestBatchEnrollPartitions(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	s1 := e.createUser(t, "s1", model.Student)
	s2 := e.createUser(t, "s2", model.Student)
	s3 := e.createUser(t, "s3", model.Student)
	otherTeacher := e.createUser(t, "t2", model.Teacher)
	course := e.createCourse(t, teacher.ID, true)

	e.enroll(t, s3.ID, course.ID)

	// s1、s2 新选课；s3 已选；教师账号与不存在的 ID 都被跳过
	result, err := svc.BatchEnroll(claimsFor(teacher), course.ID,
		[]uint{s1.ID, s2.ID, s3.ID, otherTeacher.ID, 99999})
	if err != nil {
		t.Fatalf("batch enroll: %v", err)
	}

	if result.EnrolledCount != 2 {
		t.Errorf("enrolledCount = %d, want 2", result.EnrolledCount)
	}
	if result.AlreadyEnrolledCount != 1 {
		t.Errorf("alreadyEnrolledCount = %d, want 1", result.AlreadyEnrolledCount)
	}
	if result.SkippedCount != 2 {
		t.Errorf("skippedCount = %d, want 2 (teacher + unknown id)", result.SkippedCount)
	}
	if len(result.EnrolledIDs) != 2 {
		t.Errorf("enrolledIds = %v, want 2 entries", result.EnrolledIDs)
	}
}

func TestBatchEnrollRequiresOwnership(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)

	owner := e.createUser(t, "owner", model.Teacher)
	intruder := e.createUser(t, "intruder", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, owner.ID, true)

	_, err := svc.BatchEnroll(claimsFor(intruder), course.ID, []uint{student.ID})
	if !errors.Is(err, util.ErrForbidden) {
		t.Errorf("batch enroll by non-owner: err = %v, want forbidden", err)
	}
}

func TestDeleteCourseCascade(t *testing.T) {
	e := newTestEnv(t)
	svc := newCourseService(e)
	progressSvc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "Only")
	e.enroll(t, student.ID, course.ID)

	// 学完发证，之后删课
	if _, err := progressSvc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{Completed: boolPtr(true)}); err != nil {
		t.Fatalf("progress: %v", err)
	}

	if err := svc.DeleteCourse(claimsFor(teacher), course.ID); err != nil {
		t.Fatalf("delete course: %v", err)
	}

	var enrollments, progressRows, certs int64
	e.DB.Model(&model.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollments)
	e.DB.Model(&model.Progress{}).Where("user_id = ?", student.ID).Count(&progressRows)
	e.DB.Model(&model.Certificate{}).Where("course_id = ?", course.ID).Count(&certs)

	if enrollments != 0 || progressRows != 0 {
		t.Errorf("after delete: enrollments=%d progress=%d, want 0/0", enrollments, progressRows)
	}
	// 已发证书是学习成果记录，删课不回收
	if certs != 1 {
		t.Errorf("certificates after course delete = %d, want 1 (kept)", certs)
	}
}
