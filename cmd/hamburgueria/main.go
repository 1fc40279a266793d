package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"hamburgueria/internal/historysub"
	"hamburgueria/internal/storefront"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

func main() {
	level := os.Getenv("HAMBURGUERIA_LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	mylogger, err := logger.New(level)
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.String("mode", "", "service to run: storefront | history-subscriber")

	mode, remainingArgs := splitMode(os.Args[1:])
	if mode == "" {
		mylogger.Action("hamburgueria_failed").Error("Failed to start", xerrors.ErrModeFlag)
		help(fs)
		return
	}

	ctx := context.Background()
	switch mode {
	case "storefront", "sf":
		l := mylogger.With("service", "storefront")
		l.Action("storefront_started").Info("Successfully started")
		if err := storefront.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("storefront_failed").Error("Error in storefront", err)
			if !errors.Is(err, xerrors.ErrHelp) {
				log.Fatalf("failed to execute storefront: %s", err)
			}
		}
		l.Action("storefront_completed").Info("Successfully completed")

	case "history-subscriber", "hs":
		l := mylogger.With("service", "history-subscriber")
		l.Action("history_subscriber_started").Info("Successfully started")
		if err := historysub.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("history_subscriber_failed").Error("Error in history-subscriber", err)
			if !errors.Is(err, xerrors.ErrHelp) {
				log.Fatalf("failed to execute history-subscriber: %s", err)
			}
		}
		l.Action("history_subscriber_completed").Info("Successfully completed")

	default:
		mylogger.Action("hamburgueria_failed").Error("Failed to start", xerrors.ErrUnknownService)
		help(fs)
	}
}

// splitMode pulls --mode out of args and returns the rest for the service.
func splitMode(args []string) (string, []string) {
	var mode string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "--mode="), strings.HasPrefix(arg, "-mode="):
			mode = arg[strings.Index(arg, "=")+1:]
		case arg == "--mode" || arg == "-mode":
			if i+1 < len(args) {
				mode = args[i+1]
				i++
			}
		default:
			rest = append(rest, arg)
		}
	}
	return mode, rest
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./hamburgueria --mode=storefront --port=3000 --config-path=config.yaml")
	fmt.Println("  ./hamburgueria --mode=history-subscriber")
}
