package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/popover/internal/hover"
	"github.com/jmylchreest/popover/internal/journal"
	"github.com/jmylchreest/popover/internal/pointer"
	"github.com/jmylchreest/popover/internal/tui"
)

var demoOpts struct {
	scene string
	watch bool
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive popover demo",
	Long: `Launch a terminal host that draws a scene and a popover on its anchor.

Mouse motion is fed to the hover tracker; the popover closes once the
pointer settles outside its hit-region, or on a click outside the panel
and anchor. Finished sessions are recorded in the session journal (see
"popover sessions").

Key bindings:
  o           Open/close the popover
  j/k, ↑/↓    Scroll the document
  ?           Show help
  q           Quit`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVarP(&demoOpts.scene, "scene", "s", "",
		"Scene name or path (default from config)")
	demoCmd.Flags().BoolVarP(&demoOpts.watch, "watch", "w", false,
		"Reload the scene when its file changes")
}

func runDemo(cmd *cobra.Command, args []string) error {
	c := getConfig()

	scene, err := loadScene(demoOpts.scene)
	if err != nil {
		return err
	}

	classify, err := pointer.Detect(c.Hover.Pointer, os.Stdout.Fd())
	if err != nil {
		return fmt.Errorf("failed to detect pointer: %w", err)
	}

	var watchPath string
	if demoOpts.watch {
		name := demoOpts.scene
		if name == "" {
			name = c.Scene.Name
		}
		watchPath = sceneLoader().Resolve(name)
		if watchPath == "" {
			logger.Warn("scene is embedded, nothing to watch", "scene", name)
		}
	}

	var j *journal.Journal
	if c.Journal.Enabled {
		j, err = journal.Open(c.JournalPath())
		if err != nil {
			logger.Warn("failed to open session journal", "path", c.JournalPath(), "error", err)
		} else {
			defer j.Close()
		}
	}

	wait, maxWait := c.Timings()
	return tui.Run(tui.Options{
		Scene:       scene,
		Placement:   c.Placement(),
		Display:     c.DisplayOptions(),
		PanelWidth:  c.Popover.PanelWidth,
		PanelHeight: c.Popover.PanelHeight,
		CellWidth:   c.TUI.CellWidth,
		CellHeight:  c.TUI.CellHeight,
		Hover: []hover.Option{
			hover.WithClassifier(classify),
			hover.WithWait(wait),
			hover.WithMaxWait(maxWait),
		},
		Logger:    logger,
		WatchPath: watchPath,
		Journal:   j,
	})
}
