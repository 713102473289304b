package model

type Course struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"`
	Duration    int    `gorm:"default:0" json:"duration"` // 课程时长（分钟）
	Published   bool   `gorm:"default:false" json:"published"`
	ImageURL    string `gorm:"size:255" json:"imageUrl"`
	TeacherID   uint   `gorm:"index;not null" json:"teacherId"`
	Teacher     *User  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
