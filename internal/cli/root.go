// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/modeler/internal/config"
	"github.com/aidanlsb/modeler/internal/ui"
)

var (
	// Global flags
	projectDirFlag string
	configPath     string
	verbose        bool
	dialectFlag    dialectValue

	// Resolved values
	resolvedDir        string
	resolvedConfigPath string
	cfg                *config.Config
	logger             = zap.NewNop()
)

// rootCmd represents the base command. Without a subcommand it starts the
// interactive session.
var rootCmd = &cobra.Command{
	Use:   "modeler",
	Short: "modeler - an interactive data model editor",
	Long: `modeler edits a data model of entities, fields and grouped actions through
a small command language with tab completion, and derives reversible SQL
migrations from every change made in a session.

Start it in a project directory and type help to list the commands.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}

		var err error
		resolvedDir, err = resolveDir(projectDirFlag)
		if err != nil {
			return err
		}
		cfg, resolvedConfigPath, err = loadConfigWithPath(resolvedDir)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix or remove "+config.FileName)
		}
		if err := applyFlagOverrides(cmd.Flags()); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		logger, err = newLogger(cfg.LogLevel(), verbose)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Use one of debug, info, warn, error for [log] level")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context())
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errSilent(err) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDirFlag, "dir", "C", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: <dir>/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.Flags().Var(&dialectFlag, "dialect", "SQL dialect of generated migrations: postgres or sqlite (overrides config)")
	rootCmd.Flags().Bool("no-verify", false, "Skip the SQLite dry run of generated migrations")
}

func resolveDir(flag string) (string, error) {
	dir := strings.TrimSpace(flag)
	if dir == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid project directory %s: %w", dir, err)
	}
	if st, err := os.Stat(abs); err != nil || !st.IsDir() {
		return "", fmt.Errorf("project directory not found: %s", abs)
	}
	return abs, nil
}

func loadConfigWithPath(dir string) (*config.Config, string, error) {
	if strings.TrimSpace(configPath) != "" {
		loaded, err := config.LoadFrom(configPath)
		return loaded, configPath, err
	}
	loaded, err := config.Load(dir)
	return loaded, filepath.Join(dir, config.FileName), err
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}
