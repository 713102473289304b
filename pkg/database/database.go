package database

import (
	"fmt"
	"log"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// 唯一键冲突需要被识别为 gorm.ErrDuplicatedKey（证书幂等签发依赖它）
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedAdmin(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate 执行全部表结构迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.Progress{},
		&model.Certificate{},
		&model.ChatMessage{},
	)
}

// seedAdmin 用户表为空时写入默认管理员（系统不开放自助注册）
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:     "Administrator",
		Email:    "admin@learnhub.local",
		Password: string(hashed),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Seeded default admin account: admin@learnhub.local")
	return nil
}
