package main

import (
	"context"
	"os"

	"github.com/ridwanfathin/purchase-manager-service/internal/config"
	"github.com/ridwanfathin/purchase-manager-service/internal/database"
	"github.com/ridwanfathin/purchase-manager-service/internal/handler"
	"github.com/ridwanfathin/purchase-manager-service/internal/logging"
	"github.com/ridwanfathin/purchase-manager-service/internal/repository"
	"github.com/ridwanfathin/purchase-manager-service/internal/server"
	"github.com/ridwanfathin/purchase-manager-service/internal/service"
	"github.com/ridwanfathin/purchase-manager-service/internal/storage"
	"github.com/sirupsen/logrus"
)

// @title Purchase Manager API
// @version 1.0
// @description Upload, search and delete customer purchases with their PDF receipts.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	logger.Info("Initializing repository...")
	repo, closeDB, err := openRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer closeDB()

	logger.Infof("Initializing %s receipt storage...", cfg.ReceiptStorage)
	receipts, err := openReceiptStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize receipt storage: %v", err)
	}

	purchaseService := service.NewPurchaseService(repo, receipts, logger)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService, cfg.MaxReceiptSize, logger)

	appServer := server.NewServer(cfg, purchaseHandler, logger)
	if err := appServer.Start(); err != nil {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Info("Server shutdown complete")
}

// openRepository connects to the database named by dbURL, creates the
// schema if needed and returns the matching repository
func openRepository(ctx context.Context, dbURL string) (repository.PurchaseRepository, func(), error) {
	if database.DialectFromURL(dbURL) == database.DialectSQLite {
		db, err := database.NewSQLiteDB(ctx, database.SQLiteDSN(dbURL))
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repository.NewSQLitePurchaseRepository(db), func() { db.Close() }, nil
	}

	db, err := database.NewPostgresDB(ctx, dbURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewPostgresPurchaseRepository(db), db.Close, nil
}

func openReceiptStore(cfg *config.Config) (storage.ReceiptStore, error) {
	if cfg.ReceiptStorage == config.StorageS3 {
		return storage.NewS3ReceiptStore(&storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			AccessKeySecret: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
	}
	return storage.NewLocalReceiptStore(cfg.UploadDir)
}
