package model

import (
	"encoding/json"
	"time"
)

// DocumentChunk stores one text chunk and its embedding for retrieval.
// Embedding is stored as a JSON array of float32 for portability.
// ChunkIndex is 0-based and contiguous within one ingestion batch.
type DocumentChunk struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Embedding    string    `gorm:"type:text;not null" json:"-"` // JSON array of float32
	DocumentName string    `gorm:"size:255" json:"document_name"`
	ChunkIndex   int       `gorm:"not null" json:"chunk_index"`
	CreatedAt    time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; nil on parse error.
func (c *DocumentChunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *DocumentChunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}
