// Command seed fills an empty database with random historical sales so the
// forecast pipeline has something to aggregate in local development.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"salecast/internal/config"
	"salecast/internal/core"
	applog "salecast/internal/log"
	"salecast/internal/storage"
)

const batchSize = 500

var (
	entityIDs  = []string{"1", "2", "3", "4"}
	categories = []string{"Bucket", "Wings", "Fries", "Burger", "Drink"}
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup(slog.LevelInfo).WithComponent(applog.ComponentSeed)

	cfg := config.Load()
	dbPath := flag.String("db", cfg.SQLiteDBPath, "path to the SQLite database")
	count := flag.Int("n", 5000, "number of sale records to generate")
	flag.Parse()

	repo, err := storage.NewSQLiteRepository(*dbPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()

	existing, err := repo.CountSales(ctx)
	if err != nil {
		logger.Error("Failed to count sales", "error", err)
		os.Exit(1)
	}
	if existing > 0 {
		logger.Info("Database already contains sales, skipping seeding", "count", existing)
		return
	}

	logger.Info("Seeding sales", "count", *count, "path", *dbPath)

	now := time.Now().UTC()
	bar := progressbar.Default(int64(*count), "seeding sales")

	for inserted := 0; inserted < *count; {
		n := batchSize
		if remaining := *count - inserted; remaining < n {
			n = remaining
		}

		batch := make([]core.Sale, 0, n)
		for i := 0; i < n; i++ {
			daysAgo := 1 + rand.Intn(14)
			batch = append(batch, core.Sale{
				EntityID:   entityIDs[rand.Intn(len(entityIDs))],
				Category:   categories[rand.Intn(len(categories))],
				Hour:       8 + rand.Intn(16), // opening hours 08:00-23:00
				Quantity:   float64(1 + rand.Intn(50)),
				OccurredAt: now.AddDate(0, 0, -daysAgo),
			})
		}

		if err := repo.InsertSales(ctx, batch); err != nil {
			logger.Error("Failed to insert sales batch", "error", err)
			os.Exit(1)
		}
		inserted += n
		_ = bar.Add(n)
	}

	logger.Info("Seeding complete", "count", *count)
}
