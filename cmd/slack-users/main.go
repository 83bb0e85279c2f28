package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.mcconachie.co/slack-reactions/internal/config"
	"go.mcconachie.co/slack-reactions/internal/logging"
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

	logger, err := logging.New(logging.Options{
		Name:    "slack-users",
		Level:   cfg.Log.Level,
		Dir:     cfg.Log.Dir,
		Console: zapcore.Lock(os.Stdout),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.RequireChannel(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	client, err := slackclient.NewClient(cfg.Slack, logger)
	if err != nil {
		logger.Fatal("Failed to create Slack client", zap.Error(err))
	}

	_, out, err := client.ExportMembers(context.Background(), nil, slackclient.ExportMembersInput{Channel: cfg.Channel})
	if err != nil {
		logger.Fatal("Failed to export channel members",
			zap.String("channel", cfg.Channel),
			zap.Error(slackclient.WrapError(logger, "export_members", err)))
	}

	logger.Info("Finished",
		zap.String("channel_id", out.ChannelID),
		zap.Int("members", out.MemberCount),
		zap.String("file", out.File.Path))
}
