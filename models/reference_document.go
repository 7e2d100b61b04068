package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceDocument is a knowledge-base passage used to ground chat
// responses. The embedding vector is stored JSON-encoded alongside the
// content and compared by cosine similarity at query time.
type ReferenceDocument struct {
	ID            string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	Content       string    `gorm:"column:content;type:text;not null" json:"content"`
	MetadataJSON  string    `gorm:"column:metadata;type:text" json:"-"`
	EmbeddingJSON string    `gorm:"column:embedding;type:text" json:"-"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (d *ReferenceDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

func (ReferenceDocument) TableName() string {
	return "reference_documents"
}

// Metadata decodes the stored metadata map
func (d *ReferenceDocument) Metadata() map[string]interface{} {
	if d.MetadataJSON == "" {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(d.MetadataJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetMetadata encodes the metadata map for storage
func (d *ReferenceDocument) SetMetadata(meta map[string]interface{}) {
	if len(meta) == 0 {
		d.MetadataJSON = ""
		return
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return
	}
	d.MetadataJSON = string(data)
}

// Embedding decodes the stored vector
func (d *ReferenceDocument) Embedding() []float32 {
	if d.EmbeddingJSON == "" {
		return nil
	}
	var out []float32
	if err := json.Unmarshal([]byte(d.EmbeddingJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetEmbedding encodes the vector for storage
func (d *ReferenceDocument) SetEmbedding(vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	d.EmbeddingJSON = string(data)
	return nil
}
