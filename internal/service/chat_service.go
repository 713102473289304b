package service

import (
	"errors"
	"fmt"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// ResponseGenerator 生成 AI 助手回复。生产环境可以换成真实模型网关，
// 默认实现是规则化的占位回复。
type ResponseGenerator interface {
	Generate(message, context string) string
}

// CannedResponder 基于关键词的固定话术回复器
type CannedResponder struct{}

func (CannedResponder) Generate(message, context string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "quiz") || strings.Contains(lower, "测验"):
		return "Quizzes are attached to individual lessons. Open a lesson and look for the quiz section at the bottom."
	case strings.Contains(lower, "certificate") || strings.Contains(lower, "证书"):
		return "Certificates are issued automatically once you complete every lesson in a course. You can find yours under My Certificates."
	case strings.Contains(lower, "progress") || strings.Contains(lower, "进度"):
		return "Your progress is tracked per lesson. Mark a lesson as completed and your course percentage updates immediately."
	case context != "":
		return fmt.Sprintf("Here is some guidance on %s: review the lesson material first, then try the exercises. Ask me for specifics anytime.", context)
	default:
		return "I can help with courses, lessons, quizzes, progress and certificates. What would you like to know?"
	}
}

// ChatExchange 一次对话往返：用户消息 + 助手回复
type ChatExchange struct {
	UserMessage *model.ChatMessage `json:"userMessage"`
	Reply       *model.ChatMessage `json:"reply"`
}

type ChatService struct {
	ChatRepo  *repository.ChatRepository
	Responder ResponseGenerator
}

func NewChatService(chatRepo *repository.ChatRepository, responder ResponseGenerator) *ChatService {
	if responder == nil {
		responder = CannedResponder{}
	}
	return &ChatService{
		ChatRepo:  chatRepo,
		Responder: responder,
	}
}

// SendMessage 持久化用户消息与助手回复两条记录
func (s *ChatService) SendMessage(userID uint, content, context string) (*ChatExchange, error) {
	if strings.TrimSpace(content) == "" {
		return nil, util.Validation("message must not be empty")
	}

	userMsg := &model.ChatMessage{
		UserID:  userID,
		Sender:  model.SenderUser,
		Content: content,
		Context: context,
	}
	if err := s.ChatRepo.Create(userMsg); err != nil {
		return nil, err
	}

	reply := &model.ChatMessage{
		UserID:  userID,
		Sender:  model.SenderAssistant,
		Content: s.Responder.Generate(content, context),
		Context: context,
	}
	if err := s.ChatRepo.Create(reply); err != nil {
		return nil, err
	}

	return &ChatExchange{UserMessage: userMsg, Reply: reply}, nil
}

func (s *ChatService) GetHistory(userID uint, page, limit int) ([]model.ChatMessage, int64, error) {
	return s.ChatRepo.ListByUser(userID, page, limit)
}

func (s *ChatService) GetRecent(userID uint, limit int) ([]model.ChatMessage, error) {
	return s.ChatRepo.Recent(userID, limit)
}

// DeleteMessage 只允许删除本人的消息
func (s *ChatService) DeleteMessage(userID, messageID uint) error {
	msg, err := s.ChatRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("chat message not found: %w", util.ErrNotFound)
		}
		return err
	}
	if msg.UserID != userID {
		return fmt.Errorf("cannot delete another user's message: %w", util.ErrForbidden)
	}

	if err := s.ChatRepo.Delete(messageID); err != nil {
		return err
	}
	s.ChatRepo.InvalidateCache(userID)
	return nil
}

// GetRecommendations 固定话术占位，不做个性化
func (s *ChatService) GetRecommendations(userID uint) []string {
	return []string{
		"Review lessons you completed more than a week ago.",
		"Finish courses that are above 75% progress to earn certificates.",
		"Explore a new category to broaden your skills.",
	}
}

// Resume 简历/学习总结占位，走同一个生成器契约
func (s *ChatService) Resume(userID uint, prompt string) string {
	return s.Responder.Generate(prompt, "resume")
}
