// Command userspanel is an interactive terminal client for the usersadmin
// REST API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dalemusser/usersadmin/internal/app/client/userapi"
	"github.com/dalemusser/usersadmin/internal/app/console"
	"github.com/dalemusser/usersadmin/internal/app/system/timeouts"
	"github.com/dalemusser/usersadmin/internal/app/system/workers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const envPrefix = "USERSPANEL"

type options struct {
	baseURL     string
	pageSize    int
	timeout     time.Duration
	debug       bool
	logFile     string
	historyFile string
}

func env(name, def string) string {
	if v := os.Getenv(envPrefix + "_" + name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(envPrefix + "_" + name)); err == nil {
		return n
	}
	return def
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".userspanel_history")
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "userspanel",
		Short:         "Browse and manage users through the usersadmin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.baseURL, "base-url", env("BASE_URL", "http://localhost:8080"), "usersadmin API base URL")
	f.IntVar(&opts.pageSize, "page-size", envInt("PAGE_SIZE", 0), "rows per page (0 uses the default)")
	f.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (0 uses "+envPrefix+"_TIMEOUT_MEDIUM or the built-in default)")
	f.BoolVar(&opts.debug, "debug", false, "log debug output to stderr")
	f.StringVar(&opts.logFile, "log-file", env("LOG_FILE", ""), "write JSON logs to this file")
	f.StringVar(&opts.historyFile, "history-file", env("HISTORY_FILE", defaultHistoryFile()), "command history file (empty disables history)")
	return cmd
}

// newLogger logs to stderr in debug mode, to a file when one is given,
// and nowhere otherwise so log lines never mix with the table output.
func newLogger(opts options) (*zap.Logger, error) {
	switch {
	case opts.debug:
		return zap.NewDevelopment()
	case opts.logFile != "":
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{opts.logFile}
		cfg.ErrorOutputPaths = []string{opts.logFile}
		return cfg.Build()
	default:
		return zap.NewNop(), nil
	}
}

func run(ctx context.Context, opts options) error {
	logger, err := newLogger(opts)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if n := timeouts.ConfigureFromEnv(envPrefix); n > 0 {
		logger.Debug("timeouts from environment", zap.Int("applied", n))
	}
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = timeouts.Medium()
	}

	api, err := userapi.New(opts.baseURL,
		userapi.WithTimeout(timeout),
		userapi.WithLogger(logger.Named("api")),
	)
	if err != nil {
		return err
	}

	prompter, err := console.NewReadlinePrompter(opts.historyFile)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer prompter.Close()
	go func() {
		<-ctx.Done()
		_ = prompter.Close()
	}()

	queue := workers.NewQueue(logger.Named("refresh"), 16)
	queue.Start()
	defer queue.Stop()

	c := console.New(api, prompter, prompter.Stdout(), console.Options{
		PageSize:   opts.pageSize,
		Dispatcher: queue,
		Timeout:    timeout,
		Logger:     logger,
	})

	logger.Info("userspanel started", zap.String("base_url", opts.baseURL), zap.Duration("timeout", timeout))
	return c.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "userspanel:", err)
		stop()
		os.Exit(1)
	}
}
