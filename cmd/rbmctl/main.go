package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lojasmm/rbm/internal/auth"
	"github.com/lojasmm/rbm/internal/config"
	"github.com/lojasmm/rbm/internal/rbm"
)

var (
	timeout time.Duration
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:          "rbmctl",
		Short:        "Command line client for the RCS Business Messaging agent API",
		Long:         "rbmctl sends messages, events and capability checks as the agent configured by RBM_SERVICE_ACCOUNT_FILE.",
		SilenceUsage: true,
	}

	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the command")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(sendTextCmd())
	root.AddCommand(sendCardCmd())
	root.AddCommand(sendCmd())
	root.AddCommand(readCmd())
	root.AddCommand(typingCmd())
	root.AddCommand(revokeCmd())
	root.AddCommand(capabilityCmd())
	root.AddCommand(capabilityCheckCmd())
	root.AddCommand(usersCmd())
	root.AddCommand(testerCmd())
	root.AddCommand(uploadCmd())
	root.AddCommand(simulateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// commandContext is cancelled on SIGINT/SIGTERM or after --timeout.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// gateway builds an authenticated client from the environment.
func gateway(ctx context.Context) (*rbm.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := zerolog.Nop()
	if verbose {
		cfg.LogLevel = zerolog.DebugLevel
		logger = cfg.Logger()
	}

	sa, err := auth.LoadServiceAccount(ctx, cfg.ServiceAccountFile)
	if err != nil {
		return nil, nil, err
	}
	client, err := rbm.NewClient(rbm.ClientConfig{
		Endpoint:   cfg.Endpoint,
		HTTPClient: sa.NewHTTPClient(context.Background(), cfg.HTTPTimeout),
		Logger:     &logger,
		Retry:      cfg.Retry,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
