package main

import (
	"os"

	"github.com/0x5457/signclip/cmd/signclip/commands"
	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/constants"
	"github.com/0x5457/signclip/internal/logging"
	"go.uber.org/zap"
)

func main() {
	logger, err := logging.New(os.Getenv(constants.EnvLogLevel))
	if err != nil {
		logger = zap.NewNop()
	}
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("load .env failed", zap.Error(err))
	}
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
