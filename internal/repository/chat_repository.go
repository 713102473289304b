package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"learnhub_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const chatCacheSize = 50

type ChatRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

// NewChatRepository redis 可以为 nil（测试环境），此时只走数据库
func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *ChatRepository) cacheKey(userID uint) string {
	return fmt.Sprintf("chat:history:%d", userID)
}

func (r *ChatRepository) Create(msg *model.ChatMessage) error {
	if err := r.DB.Create(msg).Error; err != nil {
		return err
	}

	if r.Redis != nil {
		// 最近消息缓存，容量固定，失败不影响主流程
		if data, err := json.Marshal(msg); err == nil {
			key := r.cacheKey(msg.UserID)
			pipe := r.Redis.Pipeline()
			pipe.LPush(r.ctx, key, data)
			pipe.LTrim(r.ctx, key, 0, chatCacheSize-1)
			pipe.Expire(r.ctx, key, 24*time.Hour)
			pipe.Exec(r.ctx)
		}
	}
	return nil
}

func (r *ChatRepository) FindByID(id uint) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

func (r *ChatRepository) ListByUser(userID uint, page, limit int) ([]model.ChatMessage, int64, error) {
	var messages []model.ChatMessage
	var total int64

	query := r.DB.Model(&model.ChatMessage{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// Recent 先读缓存，缓存空则回源数据库
func (r *ChatRepository) Recent(userID uint, limit int) ([]model.ChatMessage, error) {
	if r.Redis != nil {
		raw, err := r.Redis.LRange(r.ctx, r.cacheKey(userID), 0, int64(limit-1)).Result()
		if err == nil && len(raw) > 0 {
			messages := make([]model.ChatMessage, 0, len(raw))
			for _, item := range raw {
				var msg model.ChatMessage
				if err := json.Unmarshal([]byte(item), &msg); err == nil {
					messages = append(messages, msg)
				}
			}
			return messages, nil
		}
	}

	var messages []model.ChatMessage
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ChatMessage{}, id).Error
}

// InvalidateCache 删除消息后清掉缓存窗口
func (r *ChatRepository) InvalidateCache(userID uint) {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, r.cacheKey(userID))
	}
}
