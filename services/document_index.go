package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"venture_claims_go/models"

	"gorm.io/gorm"
)

// RetrievedDocument is a knowledge-base passage matched against a query,
// annotated with its similarity score.
type RetrievedDocument struct {
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Similarity float64                `json:"similarity"`
}

// DocumentIndex stores reference passages with their embeddings and answers
// nearest-neighbour queries by cosine similarity.
type DocumentIndex struct {
	db  *gorm.DB
	llm CompletionClient
}

func NewDocumentIndex(db *gorm.DB, llm CompletionClient) *DocumentIndex {
	return &DocumentIndex{db: db, llm: llm}
}

// IndexDocument embeds content and persists it as a reference passage
func (idx *DocumentIndex) IndexDocument(ctx context.Context, content string, metadata map[string]interface{}) error {
	embedding, err := idx.llm.CreateEmbedding(ctx, content)
	if err != nil {
		return err
	}

	doc := models.ReferenceDocument{Content: content}
	doc.SetMetadata(metadata)
	if err := doc.SetEmbedding(embedding); err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	if err := idx.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	return nil
}

// Query returns up to limit passages whose similarity to the query embedding
// meets the threshold, ordered best match first.
func (idx *DocumentIndex) Query(ctx context.Context, embedding []float32, limit int, threshold float64) ([]RetrievedDocument, error) {
	var docs []models.ReferenceDocument
	if err := idx.db.WithContext(ctx).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to load reference documents: %w", err)
	}

	matches := make([]RetrievedDocument, 0, len(docs))
	for i := range docs {
		stored := docs[i].Embedding()
		if len(stored) == 0 {
			continue
		}
		sim := cosineSimilarity(embedding, stored)
		if sim < threshold {
			continue
		}
		matches = append(matches, RetrievedDocument{
			Content:    docs[i].Content,
			Metadata:   docs[i].Metadata(),
			Similarity: sim,
		})
	}

	sort.Slice(matches, func(a, b int) bool {
		return matches[a].Similarity > matches[b].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
