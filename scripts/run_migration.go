package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/ridwanfathin/purchase-manager-service/internal/database"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logrus.Fatal("DATABASE_URL environment variable not set")
	}

	ctx := context.Background()

	if database.DialectFromURL(dbURL) == database.DialectSQLite {
		db, err := database.NewSQLiteDB(ctx, database.SQLiteDSN(dbURL))
		if err != nil {
			logrus.Fatalf("Unable to open database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logrus.Fatalf("Failed to execute migration: %v", err)
		}
	} else {
		db, err := database.NewPostgresDB(ctx, dbURL)
		if err != nil {
			logrus.Fatalf("Unable to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logrus.Fatalf("Failed to execute migration: %v", err)
		}
	}

	logrus.Info("Migration successfully executed!")
}
