package repository

import (
	"fmt"

	"gorm.io/gorm"

	"pdfchat/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Create(entry *model.ChatHistory) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create chat history failed: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.ChatHistory{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count chat history failed: %w", err)
	}
	return count, nil
}
