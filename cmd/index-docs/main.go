package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"venture_claims_go/config"
	"venture_claims_go/db"
	"venture_claims_go/models"
	"venture_claims_go/services"
)

// Indexes plain-text knowledge base files into the reference document store
// so the chat assistant can ground its answers on them.
func main() {
	dir := flag.String("dir", "knowledge", "directory of .txt/.md files to index")
	flag.Parse()

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required to compute embeddings")
	}

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.ReferenceDocument{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	llm := services.NewOpenAIClient(cfg.OpenAIAPIKey)
	index := services.NewDocumentIndex(db.DB, llm)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *dir, err)
	}

	indexed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		text := strings.TrimSpace(string(content))
		if text == "" {
			continue
		}

		err = index.IndexDocument(context.Background(), text, map[string]interface{}{
			"source": entry.Name(),
		})
		if err != nil {
			log.Printf("Failed to index %s: %v", path, err)
			continue
		}
		indexed++
		log.Printf("Indexed %s", entry.Name())
	}

	log.Printf("Done: %d documents indexed", indexed)
}
