package model

type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "assistant"
)

// ChatMessage 追加写入的用户/AI 对话记录
type ChatMessage struct {
	BaseModel
	UserID  uint       `gorm:"index;not null" json:"userId"`
	Sender  ChatSender `gorm:"size:20;not null" json:"sender"`
	Content string     `gorm:"type:text;not null" json:"content"`
	Context string     `gorm:"size:100" json:"context"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
