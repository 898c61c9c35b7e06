// Package main provides the CLI entrypoint for typerush.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/typerush/typerush/internal/api"
	"github.com/typerush/typerush/internal/config"
	"github.com/typerush/typerush/internal/logging"
	"github.com/typerush/typerush/internal/model"
	"github.com/typerush/typerush/internal/report"
	"github.com/typerush/typerush/internal/store"
	"github.com/typerush/typerush/internal/tui"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultDuration  = 60
	defaultTimeout   = 10
	defaultLogLevel  = "warn"
	leaderboardSize  = 10
	historySize      = 20
)

var (
	playServer   string
	playDuration int
	playNickname string
	playEmail    string
	playTimeout  int
	playLogLevel string

	boardServer string
	boardDaily  bool
	boardLocal  bool

	historyLast int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typerush",
		Short:         "Terminal typing race",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playServer, "server", defaultServerURL, "game server base URL")
	rootCmd.Flags().IntVar(&playDuration, "duration", defaultDuration, "race duration in seconds")
	rootCmd.Flags().StringVar(&playNickname, "nickname", "", "pre-fill the nickname field")
	rootCmd.Flags().StringVar(&playEmail, "email", "", "pre-fill the email field")
	rootCmd.Flags().IntVar(&playTimeout, "timeout", defaultTimeout, "request timeout in seconds")
	rootCmd.Flags().StringVar(&playLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &playServer, fileCfg.Server.URL)
	applyIntConfig(cmd, "timeout", &playTimeout, fileCfg.Server.TimeoutSeconds)
	applyIntConfig(cmd, "duration", &playDuration, fileCfg.Game.Duration)
	applyStringConfig(cmd, "nickname", &playNickname, fileCfg.Game.Nickname)
	applyStringConfig(cmd, "email", &playEmail, fileCfg.Game.Email)
	applyStringConfig(cmd, "log-level", &playLogLevel, fileCfg.Log.Level)

	cfg := model.Config{
		ServerURL: strings.TrimRight(playServer, "/"),
		Duration:  playDuration,
		Nickname:  playNickname,
		Email:     playEmail,
	}
	if err := validateConfig(cfg, playTimeout); err != nil {
		return err
	}

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		logPath = *fileCfg.Log.File
	}
	logger, err := logging.Open(logPath, playLogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		// Local history is optional; play without it.
		logger.Warn("failed to open local history db", zap.Error(err))
		st = nil
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Warn("failed to close db", zap.Error(cerr))
			}
		}()
	}

	client := api.NewClient(cfg.ServerURL, api.WithTimeout(time.Duration(playTimeout)*time.Second))
	logger.Info("starting game",
		zap.String("server", cfg.ServerURL),
		zap.Int("duration", cfg.Duration))

	gameModel := tui.NewModel(cfg, client, st, logger)
	program := tea.NewProgram(gameModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardServer, "server", defaultServerURL, "game server base URL")
	cmd.Flags().BoolVar(&boardDaily, "daily", false, "show today's board instead of all-time")
	cmd.Flags().BoolVar(&boardLocal, "local", false, "show best local scores instead of the server board")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &boardServer, fileCfg.Server.URL)

	if boardLocal {
		return renderLocalBoard(cmd)
	}

	client := api.NewClient(strings.TrimRight(boardServer, "/"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(defaultTimeout)*time.Second)
	defer cancel()

	title := "All-Time Top 10"
	var entries []model.LeaderboardEntry
	if boardDaily {
		title = "Today's Top 10"
		entries, err = client.DailyLeaderboard(ctx)
	} else {
		entries, err = client.AllTimeLeaderboard(ctx)
	}
	if err != nil {
		logErrf("server unreachable (%v); falling back to local scores\n", err)
		return renderLocalBoard(cmd)
	}
	return report.RenderLeaderboard(cmd.OutOrStdout(), title, entries)
}

func renderLocalBoard(cmd *cobra.Command) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	entries, err := st.BestScores(context.Background(), leaderboardSize)
	if err != nil {
		return fmt.Errorf("failed to load local scores: %w", err)
	}
	return report.RenderLeaderboard(cmd.OutOrStdout(), "Local Best Scores", entries)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show local race history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", historySize, "limit to last N races")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast <= 0 {
		return fmt.Errorf("--last must be > 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	records, err := st.ListResults(context.Background(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.RenderHistory(cmd.OutOrStdout(), records)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typerush configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# url = %q      # Game server base URL
# timeout-seconds = %d           # Request timeout

[game]
# duration = %d                  # Race duration in seconds
# nickname = ""                  # Pre-fill the nickname field
# email = ""                     # Pre-fill the email field

[log]
# level = %q                 # debug, info, warn, error
# file = ""                      # Defaults to the XDG state dir
`,
		defaultServerURL,
		defaultTimeout,
		defaultDuration,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config, timeout int) error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("--server must not be empty")
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		return fmt.Errorf("--server must be an http(s) URL")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
