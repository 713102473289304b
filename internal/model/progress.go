package model

import "time"

// Progress 每个 (user_id, lesson_id) 一行，首次更新时创建
type Progress struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_progress_user_lesson;not null" json:"userId"`
	LessonID  uint `gorm:"uniqueIndex:idx_progress_user_lesson;not null" json:"lessonId"`
	Completed bool `gorm:"default:false" json:"completed"`
	// CompletedAt 在 completed 置为 true 时写入，显式取消完成时清空
	CompletedAt *time.Time `json:"completedAt"`
	TimeSpent   int        `gorm:"default:0" json:"timeSpent"` // 累计秒数，只增不减
	QuizScore   *float64   `json:"quizScore"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "progress"
}
