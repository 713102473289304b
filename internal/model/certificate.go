package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate 每个 (user_id, course_id) 最多一张，完成全部课时自动签发。
// 唯一索引是幂等性的最终保障：并发签发时只有一条 INSERT 成功。
type Certificate struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint      `gorm:"uniqueIndex:idx_cert_user_course;not null" json:"userId"`
	CourseID     uint      `gorm:"uniqueIndex:idx_cert_user_course;not null" json:"courseId"`
	SerialNumber string    `gorm:"size:36;uniqueIndex;not null" json:"serialNumber"`
	IssuedAt     time.Time `json:"issuedAt"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course       *Course   `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (cert *Certificate) BeforeCreate(tx *gorm.DB) (err error) {
	if cert.SerialNumber == "" {
		cert.SerialNumber = uuid.New().String()
	}
	if cert.IssuedAt.IsZero() {
		cert.IssuedAt = time.Now()
	}
	return
}
