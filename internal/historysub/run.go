package historysub

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"hamburgueria/internal/historysub/adapter/consumer"
	"hamburgueria/internal/xpkg/config"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

type params struct {
	configPath string
	cfg        *config.Config
}

// Execute starts the history subscriber
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, close := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer close()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_parse_completed").Debug("Received params", "config_path", params.configPath)

	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	if l, err := logger.New(params.cfg.LogLevel); err == nil {
		mylog = l.With("service", "history-subscriber")
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	history := consumer.NewHistory(newCtx, context.Background(), params.cfg, mylog)

	if err := history.Run(); err != nil {
		mylog.Action("history_run_failed").Error("History subscriber stopped with error", err)
		_ = history.Stop(ctx)
		return err
	}
	return history.Stop(ctx)
}

// parseParams parse params from terminal
func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("history-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	if err := fs.Parse(args); err != nil {
		return nil, xerrors.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, xerrors.ErrHelp
	}

	return &params{
		configPath: *configPath,
	}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg
	return nil
}
