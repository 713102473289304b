package model

import "time"

// Enrollment 关联用户与课程；(user_id, course_id) 唯一
type Enrollment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_enroll_user_course;not null" json:"userId"`
	CourseID  uint      `gorm:"uniqueIndex:idx_enroll_user_course;not null" json:"courseId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course    *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
