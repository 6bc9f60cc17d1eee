package main

import (
	"os"

	"github.com/ridwanfathin/purchase-manager-service/internal/client"
	"github.com/ridwanfathin/purchase-manager-service/internal/config"
	"github.com/ridwanfathin/purchase-manager-service/internal/logging"
	"github.com/ridwanfathin/purchase-manager-service/internal/webui"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadWebUIConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	logger.Infof("Using purchase API at %s", cfg.BackendURL)

	api := client.NewClient(&client.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
	})
	sessions := webui.NewSessionStore(cfg.SessionTTL)
	h := webui.NewHandler(api, sessions, cfg.MaxReceiptSize, logger)

	if err := webui.NewServer(cfg, h, logger).Start(); err != nil {
		logger.Fatalf("Web UI error: %v", err)
	}
	logger.Info("Web UI shutdown complete")
}
