package model

// CourseAnalytics 课程维度的只读统计
type CourseAnalytics struct {
	CourseID        uint             `json:"courseId"`
	EnrolledCount   int64            `json:"enrolledCount"`
	ActiveStudents  int64            `json:"activeStudents"` // 最近7天完成过课时的学生数
	AverageProgress float64          `json:"averageProgress"`
	Histogram       []ProgressBucket `json:"histogram"`
}

// ProgressBucket 完成度直方图的一个区间
type ProgressBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CourseProgressSummary 单个用户在某课程上的进度汇总
type CourseProgressSummary struct {
	CourseID         uint    `json:"courseId"`
	CourseTitle      string  `json:"courseTitle"`
	TotalLessons     int64   `json:"totalLessons"`
	CompletedLessons int64   `json:"completedLessons"`
	Percent          int     `json:"percent"`
	TimeSpent        int     `json:"timeSpent"`
	HasCertificate   bool    `json:"hasCertificate"`
}
