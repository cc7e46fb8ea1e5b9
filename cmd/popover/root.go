// Package main provides the CLI entrypoint for popover.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/popover/internal/config"
	"github.com/jmylchreest/popover/internal/layout"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		sceneDir   string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "popover",
	Short: "Hover-dismissed popover toolkit",
	Long: `popover resolves element positions in layout scenes, replays pointer
traces against a popover, and hosts an interactive terminal demo.

A popover opened on an anchor stays open while the pointer is inside its
hit-region and asks to be closed once a debounced pointer sample lands
outside it.

Running popover without a subcommand launches the interactive demo.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.sceneDir != "" {
			cfg.Scene.Dir = globalOpts.sceneDir
		}
		return nil
	},
	// Default to the demo when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/popover/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.sceneDir, "scene-dir", "",
		"Directory of user scenes (default: ~/.config/popover/scenes)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	return cfg
}

// sceneLoader returns a loader over the configured user scene directory.
func sceneLoader() *layout.Loader {
	return layout.NewLoader(getConfig().SceneDir())
}

// loadScene loads a scene by name or path, falling back to the configured
// scene when name is empty.
func loadScene(name string) (*layout.Scene, error) {
	if name == "" {
		name = getConfig().Scene.Name
	}
	scene, err := sceneLoader().Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return scene, nil
}
