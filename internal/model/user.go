package model

type UserRole string

const (
	Student UserRole = "STUDENT"
	Teacher UserRole = "TEACHER"
	Admin   UserRole = "ADMIN"
)

type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:'STUDENT'" json:"role"`
	Avatar   string   `gorm:"size:255" json:"avatar"`
}

func (User) TableName() string {
	return "users"
}
