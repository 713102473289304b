package model

import "gorm.io/datatypes"

type Lesson struct {
	BaseModel
	CourseID uint   `gorm:"index:idx_lesson_course_order;not null" json:"courseId"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	// Order 在课程内唯一；重排时在事务中整体重写
	Order    int            `gorm:"column:lesson_order;index:idx_lesson_course_order;not null" json:"order"`
	VideoURL string         `gorm:"size:255" json:"videoUrl"`
	Quiz     datatypes.JSON `json:"quiz,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
