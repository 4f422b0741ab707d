package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/loan-schedule/internal/logging"
	"github.com/iwvelando/loan-schedule/internal/server"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("loan-schedule-server", pflag.ContinueOnError)
	configLocation := fs.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := fs.String("address", "", "listen address override, e.g. :8080")
	maxUpload := fs.String("max-upload-size", "", "request size limit override, e.g. 512K")
	logLevel := fs.String("log-level", "", "log level override (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		return err
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *maxUpload != "" {
		size, err := server.ParseSize(*maxUpload)
		if err != nil {
			return err
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(fmt.Sprintf("starting loan-schedule-server %s", version),
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
		zap.Int64("max_upload_bytes", cfg.UploadSizeBytes()),
	)

	handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version)
	return server.Run(ctx, cfg, handler, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
