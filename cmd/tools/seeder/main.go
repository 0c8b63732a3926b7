package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/priceworks/article-service/internal/article"
	"github.com/priceworks/article-service/internal/db"
	"github.com/priceworks/article-service/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := db.Migrate(dbURL); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	svc, err := article.NewService(article.ServiceConfig{Store: store.NewPostgres(pool)})
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	seedArticles(ctx, svc)

	log.Println("Seeding completed successfully!")
}

func seedArticles(ctx context.Context, svc *article.Service) {
	log.Println("Seeding Articles...")

	today := civil.DateOf(time.Now())
	samples := []article.Article{
		{
			Name:       "Hiking Backpack 40L",
			Slogan:     "Carries everything but the summit",
			NetPrice:   money("65.00"),
			SalesPrice: money("99.95"),
			VATRatio:   ratio("0.21"),
			Discounts: []article.Discount{
				{
					Description: "Season opener",
					Percentage:  money("15"),
					StartDate:   datePtr(today.AddDays(-7)),
					EndDate:     datePtr(today.AddDays(21)),
				},
			},
		},
		{
			Name:       "Trail Running Shoes",
			Slogan:     "Grip for any terrain",
			NetPrice:   money("48.50"),
			SalesPrice: money("89.90"),
			VATRatio:   ratio("0.21"),
			Discounts: []article.Discount{
				{
					Description: "Spring clearance",
					Percentage:  money("25"),
					StartDate:   datePtr(today.AddDays(-30)),
					EndDate:     datePtr(today.AddDays(-10)),
				},
				{
					Description: "Summer kickoff",
					Percentage:  money("10"),
					StartDate:   datePtr(today.AddDays(5)),
					EndDate:     datePtr(today.AddDays(35)),
				},
			},
		},
		{
			Name:       "Thermal Water Bottle",
			SalesPrice: money("24.95"),
			NetPrice:   money("12.00"),
			VATRatio:   ratio("0.09"),
		},
		{
			Name:     "Gift Wrapping",
			NetPrice: money("1.50"),
		},
	}

	for _, a := range samples {
		created, err := svc.Create(ctx, a)
		if err != nil {
			log.Printf("Failed to seed article %q: %v", a.Name, err)
			continue
		}
		log.Printf("Seeded article %q (%s)", created.Name, created.ID)
	}
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ratio(s string) *decimal.Decimal {
	return money(s)
}

func datePtr(d civil.Date) *civil.Date {
	return &d
}
