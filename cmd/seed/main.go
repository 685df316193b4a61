package main

import (
	"context"
	"log"
	"time"

	"finquest-be/internal/config"
	"finquest-be/internal/entity"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/pkg/database"

	"github.com/google/uuid"
)

var lessons = []entity.Lesson{
	{Slug: "compound-interest", Title: "Compound Interest", Description: "How returns earn returns, and why starting early matters more than starting big."},
	{Slug: "risk-and-volatility", Title: "Risk & Volatility", Description: "Measuring how much an asset swings and what that means for your plan."},
	{Slug: "market-microstructure", Title: "Market Microstructure", Description: "Order books, spreads and what actually happens when you click buy."},
	{Slug: "options-basics", Title: "Options Basics", Description: "Calls, puts and payoff diagrams without the jargon."},
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	log.Println("Seeding lesson catalog...")
	now := time.Now()
	for i, l := range lessons {
		existing, err := uow.LessonRepository().FindOne(ctx, specification.BySlug{Slug: l.Slug})
		if err != nil {
			log.Fatalf("Error: Failed to look up lesson %s: %v", l.Slug, err)
		}
		if existing != nil {
			log.Printf("Lesson '%s' already exists, skipping...", l.Slug)
			continue
		}

		l.Id = uuid.New()
		l.Position = i + 1
		l.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		if err := uow.LessonRepository().Create(ctx, &l); err != nil {
			log.Fatalf("Error: Failed to create lesson %s: %v", l.Slug, err)
		}
		log.Printf("Created lesson '%s'", l.Title)
	}

	log.Println("Success: Seeding completed.")
}
