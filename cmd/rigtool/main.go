// Package main is the entry point for the rigging tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/thenamesdyl/animation-poc/internal/app"
	"github.com/thenamesdyl/animation-poc/internal/config"
	"github.com/thenamesdyl/animation-poc/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rigtool [flags] <model.gltf>")
		os.Exit(2)
	}
	modelPath := flag.Arg(0)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Rig Tool ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Create and run the app
	a, err := app.New(cfg, modelPath)
	if err != nil {
		logger.Error("failed to create app", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("app error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("app closed normally")
}
