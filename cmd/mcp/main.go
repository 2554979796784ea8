package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"testcase_generator/internal/app"
	"testcase_generator/internal/config"
	"testcase_generator/internal/logger"
	mcpserver "testcase_generator/internal/service/mcp-server"
)

func main() {
	settings, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// stdout carries the protocol
	if err := logger.Init(settings.LogLevel, "stderr"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	a, err := app.New(context.Background(), settings, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("failed to initialize app", zap.Error(err))
	}

	logger.GetLogger().Info("starting MCP server", zap.String("name", settings.ProjectName))
	if err := mcpserver.Serve(a.MCPServer()); err != nil {
		logger.GetLogger().Fatal("MCP server error", zap.Error(err))
	}
}
