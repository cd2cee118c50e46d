package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/drivesweep/internal/config"
	xlog "github.com/lakshaymaurya-felt/drivesweep/internal/log"
	"github.com/lakshaymaurya-felt/drivesweep/internal/whitelist"
)

var (
	// Global flags
	debug      bool
	quiet      bool
	configPath string
	logFile    string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// session is the per-invocation state shared by subcommands.
type session struct {
	settings config.Settings
	catalog  config.Catalog
	guard    *whitelist.Whitelist
	logger   zerolog.Logger
	runID    string
	closeLog func()
}

var current *session

var rootCmd = &cobra.Command{
	Use:   "dsweep",
	Short: "Find and remove disposable files",
	Long: `drivesweep - reclaim disk space from temp files, caches, logs and the trash.

Run 'dsweep scan' to see what can be reclaimed, then 'dsweep clean'
to remove it. Nothing is deleted without confirmation.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil && current.closeLog != nil {
			current.closeLog()
		}
	},
}

// Execute runs the root command. Ctrl+C cancels the running operation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Keep logs off the console (--log-file still receives them)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to a rotating file")

	// Register all subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads settings, configures logging and builds the protected-path
// guard before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	path, explicit := configPath, configPath != ""
	if !explicit {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path, explicit)
	if err != nil {
		return err
	}

	// An empty level defers to DSWEEP_LOG_LEVEL inside Configure.
	level := settings.LogLevel
	if debug {
		level = "debug"
	}
	file := settings.LogFile
	if logFile != "" {
		file = logFile
	}
	closeLog := xlog.Configure(xlog.Config{
		Level:      level,
		Output:     cmd.ErrOrStderr(),
		File:       file,
		MaxSizeMB:  settings.LogMaxSizeMB,
		MaxAgeDays: settings.LogMaxAgeDays,
		Quiet:      quiet,
	})

	catalog, err := settings.Catalog()
	if err != nil {
		closeLog()
		return fmt.Errorf("load catalog: %w", err)
	}

	runID := uuid.NewString()
	current = &session{
		settings: settings,
		catalog:  catalog,
		guard:    whitelist.New(settings.Protected).WithNeverDelete(),
		logger:   xlog.WithRun(runID).With().Str("command", cmd.Name()).Logger(),
		runID:    runID,
		closeLog: closeLog,
	}
	current.logger.Debug().
		Str("config", path).
		Int("categories", len(catalog)).
		Int("protected", current.guard.Len()).
		Msg("session ready")
	return nil
}
