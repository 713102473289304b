package service

import (
	"errors"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserFilter 用户列表筛选条件
type UserFilter struct {
	Role   string
	Search string
}

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// GetUsers 分页列表；search 对姓名/邮箱做大小写不敏感的子串匹配
func (s *UserService) GetUsers(page, limit int, filter UserFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := s.UserRepo.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// CreateUser 管理员建号；邮箱唯一性先查后插，唯一索引兜底
func (s *UserService) CreateUser(user *model.User, password string) error {
	user.Email = strings.ToLower(user.Email)

	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return util.ErrEmailRegistered
		}
		return err
	}
	return nil
}

// UpdateUser 更新资料；password 非空时同时换密码
func (s *UserService) UpdateUser(id uint, name, email, role, password, avatar string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	email = strings.ToLower(email)
	if email != "" && email != user.Email {
		if _, err := s.UserRepo.FindByEmail(email); err == nil {
			return nil, util.ErrEmailRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if name != "" {
		user.Name = name
	}
	if role != "" {
		user.Role = model.UserRole(role)
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(id uint, avatarURL string) error {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return util.ErrUserNotFound
	}
	user.Avatar = avatarURL
	return s.UserRepo.Update(user)
}

func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.UserRepo.FindByID(id); err != nil {
		return util.ErrUserNotFound
	}
	return s.UserRepo.Delete(id)
}
