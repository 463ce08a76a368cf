package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/vskvj3/geomys-sequence/internal/core"
	"github.com/vskvj3/geomys-sequence/internal/network"
	"github.com/vskvj3/geomys-sequence/internal/utils"
)

func main() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Parse command-line arguments
	configPath := pflag.String("config", filepath.Join(homeDir, ".geomys", "geomys.yaml"), "Path of the YAML config file")
	port := pflag.IntP("port", "p", 0, "Port of server (overrides config)")
	debug := pflag.Bool("debug", false, "Print debug messages to the console")
	logFile := pflag.String("log-file", "", "Log file path (default ~/.geomys/geomys.log)")
	pflag.Parse()

	// Load configurations
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		utils.NewLogger(*logFile, true).Error("Error loading configuration: " + err.Error())
		os.Exit(1)
	}
	if *logFile == "" {
		*logFile = config.LogFile
	}
	if *port != 0 {
		config.Port = *port
	}

	logger := utils.NewLogger(*logFile, *debug || config.Debug)
	defer func() { _ = logger.Sync() }()
	logger.Info("Loaded configurations from " + *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := core.NewDatabase()
	db.StartCleanup(ctx, 100*time.Millisecond)

	handler := core.NewCommandHandler(db)
	handler.DefaultExpiry = int64(config.DefaultExpiry)

	server, err := network.NewServer(strconv.Itoa(config.Port), handler)
	if err != nil {
		logger.Error("Server creation failed: " + err.Error())
		return
	}

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server stopped: " + err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
}
