package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.mcconachie.co/slack-reactions/internal/config"
	"go.mcconachie.co/slack-reactions/internal/logging"
	slackmcp "go.mcconachie.co/slack-reactions/internal/mcp"
	slackclient "go.mcconachie.co/slack-reactions/internal/slack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// stdout carries the protocol
	logger, err := logging.New(logging.Options{
		Name:    "slack-reactions-mcp",
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		Console: zapcore.Lock(os.Stderr),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	server := newServer(logger, cfg)
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func newServer(logger *zap.Logger, cfg *config.Config) *mcp.Server {
	logger.Info("Creating Slack client")
	client, err := slackclient.NewClient(cfg.Slack, logger)
	if err != nil {
		logger.Fatal("Failed to create Slack client", zap.Error(err))
	}

	return slackmcp.CreateServer(logger, client, version)
}
