package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/greenworld/garden-backend/internal/config"
	"github.com/greenworld/garden-backend/internal/db"
	"github.com/greenworld/garden-backend/internal/repository"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/joho/godotenv"
)

// Seeds the tree catalog and, when -questions points at a text file of 6-line
// blocks, bulk-imports quiz questions.
func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	questionsPath := flag.String("questions", "", "path to a question-blocks text file")
	flag.Parse()

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	catalogSvc := service.NewCatalogService(repository.NewCatalogRepository(conn))
	seeded, err := catalogSvc.SeedDefault(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		log.Printf("tree catalog initialized")
	} else {
		log.Printf("tree catalog already populated; skipping")
	}

	if *questionsPath == "" {
		return nil
	}
	text, err := os.ReadFile(*questionsPath)
	if err != nil {
		return fmt.Errorf("read questions file: %w", err)
	}
	quizSvc := service.NewQuizService(repository.NewQuestionRepository(conn))
	created, err := quizSvc.ImportText(ctx, string(text))
	if err != nil {
		return fmt.Errorf("import questions: %w", err)
	}
	log.Printf("imported %d questions", created)
	return nil
}
