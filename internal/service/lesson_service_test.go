package service

import (
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
)

func newLessonService(e *testEnv) *LessonService {
	return NewLessonService(e.Lessons, e.Courses, e.Enrollments)
}

func TestCreateLessonAppendsOrder(t *testing.T) {
	e := newTestEnv(t)
	svc := newLessonService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	course := e.createCourse(t, teacher.ID, true)

	for i, title := range []string{"Intro", "Basics", "Advanced"} {
		lesson := &model.Lesson{Title: title}
		if err := svc.CreateLesson(claimsFor(teacher), course.ID, lesson); err != nil {
			t.Fatalf("create lesson %q: %v", title, err)
		}
		if lesson.Order != i+1 {
			t.Errorf("lesson %q order = %d, want %d", title, lesson.Order, i+1)
		}
	}
}

func TestGetLessonAccessControl(t *testing.T) {
	e := newTestEnv(t)
	svc := newLessonService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	enrolled := e.createUser(t, "enrolled", model.Student)
	outsider := e.createUser(t, "outsider", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "L1")
	e.enroll(t, enrolled.ID, course.ID)

	if _, err := svc.GetLesson(claimsFor(enrolled), lesson.ID); err != nil {
		t.Errorf("enrolled student: %v", err)
	}
	if _, err := svc.GetLesson(claimsFor(teacher), lesson.ID); err != nil {
		t.Errorf("owner: %v", err)
	}
	if _, err := svc.GetLesson(claimsFor(outsider), lesson.ID); !errors.Is(err, util.ErrForbidden) {
		t.Errorf("outsider: err = %v, want forbidden", err)
	}
}

func TestReorderLessons(t *testing.T) {
	e := newTestEnv(t)
	svc := newLessonService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	course := e.createCourse(t, teacher.ID, true)
	l1 := e.createLesson(t, course.ID, "A")
	l2 := e.createLesson(t, course.ID, "B")
	l3 := e.createLesson(t, course.ID, "C")

	if err := svc.ReorderLessons(claimsFor(teacher), course.ID, []uint{l3.ID, l1.ID, l2.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	lessons, err := svc.ListLessons(claimsFor(teacher), course.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []uint{l3.ID, l1.ID, l2.ID}
	for i, l := range lessons {
		if l.ID != want[i] {
			t.Errorf("position %d: lesson %d, want %d", i, l.ID, want[i])
		}
	}
}

func TestReorderRejectsPartialPermutation(t *testing.T) {
	e := newTestEnv(t)
	svc := newLessonService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	course := e.createCourse(t, teacher.ID, true)
	l1 := e.createLesson(t, course.ID, "A")
	l2 := e.createLesson(t, course.ID, "B")
	l3 := e.createLesson(t, course.ID, "C")

	cases := []struct {
		name string
		ids  []uint
	}{
		{"missing lesson", []uint{l1.ID, l2.ID}},
		{"duplicate lesson", []uint{l1.ID, l2.ID, l2.ID}},
		{"foreign lesson id", []uint{l1.ID, l2.ID, 99999}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.ReorderLessons(claimsFor(teacher), course.ID, tc.ids); !errors.Is(err, util.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}

	// 拒绝后原顺序不变
	lessons, _ := svc.ListLessons(claimsFor(teacher), course.ID)
	want := []uint{l1.ID, l2.ID, l3.ID}
	for i, l := range lessons {
		if l.ID != want[i] {
			t.Errorf("order changed after rejected reorder at %d: got %d want %d", i, l.ID, want[i])
		}
	}
}

func TestDeleteLessonRemovesProgress(t *testing.T) {
	e := newTestEnv(t)
	svc := newLessonService(e)
	progressSvc := newProgressService(e)

	teacher := e.createUser(t, "teacher", model.Teacher)
	student := e.createUser(t, "student", model.Student)
	course := e.createCourse(t, teacher.ID, true)
	lesson := e.createLesson(t, course.ID, "L1")
	e.createLesson(t, course.ID, "L2")
	e.enroll(t, student.ID, course.ID)

	if _, err := progressSvc.UpdateLessonProgress(student.ID, lesson.ID, UpdateProgressRequest{TimeSpent: 10}); err != nil {
		t.Fatalf("progress: %v", err)
	}

	if err := svc.DeleteLesson(claimsFor(teacher), lesson.ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}

	var count int64
	e.DB.Model(&model.Progress{}).Where("lesson_id = ?", lesson.ID).Count(&count)
	if count != 0 {
		t.Errorf("progress rows for deleted lesson = %d, want 0", count)
	}
}
