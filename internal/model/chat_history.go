package model

import "time"

// ChatHistory is one answered question. Entries are append-only.
type ChatHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserQuery     string    `gorm:"type:text;not null" json:"user_query"`
	ModelResponse string    `gorm:"type:text;not null" json:"model_response"`
	CreatedAt     time.Time `json:"timestamp"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}
