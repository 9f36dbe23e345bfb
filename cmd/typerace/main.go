// Package main provides the CLI entrypoint for typerace.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typerace/internal/bot"
	"github.com/verte-zerg/typerace/internal/config"
	tlog "github.com/verte-zerg/typerace/internal/log"
	"github.com/verte-zerg/typerace/internal/model"
	"github.com/verte-zerg/typerace/internal/report"
	"github.com/verte-zerg/typerace/internal/rooms"
	"github.com/verte-zerg/typerace/internal/tui"
)

const (
	defaultTickMs    = 120
	defaultCountdown = 3
	defaultLogLevel  = "info"
)

// raceFlags are shared by every command that builds a race.
type raceFlags struct {
	room       string
	difficulty string
	seed       int64
	tickMs     int
	countdown  int
	logFile    string
	logLevel   string
}

var (
	playFlags raceFlags

	roomsDifficulty string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typerace",
		Short:         "Terminal typing race against simulated opponents",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}
	addRaceFlags(rootCmd, &playFlags)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRoomsCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

func addRaceFlags(cmd *cobra.Command, f *raceFlags) {
	cmd.Flags().StringVar(&f.room, "room", "", "room id to join directly (see: typerace rooms)")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "lobby difficulty filter (Easy, Medium, Hard)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for bot speeds (0 = time-seeded)")
	cmd.Flags().IntVar(&f.tickMs, "tick-ms", defaultTickMs, "update interval in milliseconds")
	cmd.Flags().IntVar(&f.countdown, "countdown", defaultCountdown, "countdown steps before the race starts")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
}

// resolveConfig merges the config file into flags the user did not set.
func resolveConfig(cmd *cobra.Command, f *raceFlags) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "room", &f.room, fileCfg.Race.Room)
	applyStringConfig(cmd, "difficulty", &f.difficulty, fileCfg.Race.Difficulty)
	applyInt64Config(cmd, "seed", &f.seed, fileCfg.Race.Seed)
	applyIntConfig(cmd, "tick-ms", &f.tickMs, fileCfg.Race.TickMs)
	applyIntConfig(cmd, "countdown", &f.countdown, fileCfg.Race.Countdown)
	applyStringConfig(cmd, "log-file", &f.logFile, fileCfg.Log.File)
	applyStringConfig(cmd, "log-level", &f.logLevel, fileCfg.Log.Level)

	cfg := model.Config{
		Room:       strings.TrimSpace(f.room),
		Difficulty: strings.TrimSpace(f.difficulty),
		Seed:       f.seed,
		Tick:       time.Duration(f.tickMs) * time.Millisecond,
		Countdown:  f.countdown,
		LogFile:    f.logFile,
		LogLevel:   f.logLevel,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, &playFlags)
	if err != nil {
		return err
	}
	var initial *model.Room
	if cfg.Room != "" {
		room, err := findRoom(cfg.Room)
		if err != nil {
			return err
		}
		initial = &room
	}

	logger, err := tlog.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	factory := tui.NewEngineFactory(cfg, bot.NewSeeded(cfg.Seed), logger)
	app := tui.NewApp(cfg, factory, logger, initial)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	last, ok := app.LastResult()
	if !ok {
		return nil
	}
	out := cmd.OutOrStdout()
	width := report.TerminalWidth()
	if err := report.RenderSummary(out, last, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderStandings(out, last.Standings, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func findRoom(id string) (model.Room, error) {
	room, ok := rooms.Find(id)
	if !ok {
		return model.Room{}, fmt.Errorf("unknown room %q (available: %s)", id, strings.Join(rooms.IDs(), ", "))
	}
	return room, nil
}

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms",
		Args:  cobra.NoArgs,
		RunE:  runRoomsCmd,
	}
	cmd.Flags().StringVar(&roomsDifficulty, "difficulty", "", "difficulty filter (All, Easy, Medium, Hard)")
	return cmd
}

func runRoomsCmd(cmd *cobra.Command, _ []string) error {
	if err := report.RenderRooms(cmd.OutOrStdout(), rooms.Filter(roomsDifficulty)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typerace configuration
# Uncomment a value to enable it. CLI flags override config values.

[race]
# room = "room-city-2"    # Join this room directly, skipping the lobby
# difficulty = "Medium"   # Lobby filter (Easy, Medium, Hard)
# seed = 0                # Random seed for bot speeds (0 = time-seeded)
# tick-ms = %d           # Update interval in milliseconds
# countdown = %d           # Countdown steps before the race starts

[log]
# file = %q
# level = %q
`,
		defaultTickMs,
		defaultCountdown,
		config.DefaultLogPath(),
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if cfg.Countdown < 0 {
		return fmt.Errorf("--countdown must be >= 0")
	}
	if _, err := tlog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
