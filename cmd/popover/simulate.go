package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/popover/internal/trace"
)

var simulateOpts struct {
	scene    string
	trace    string
	output   string
	keepOpen bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a pointer trace against a popover",
	Long: `Replay a recorded pointer trace against a popover opened on the scene's
anchor, on a simulated clock, and report every close request.

Traces are YAML:

  scene: default
  events:
    - at: 0ms
      x: 300
      y: 300
    - at: 1s
      x: 300
      y: 600
    - at: 2s
      action: click
      x: 10
      y: 10

Actions are move (default), click, open, close and scroll (x/y become the
document scroll offsets). Offsets accept durations or integer milliseconds.`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simulateOpts.scene, "scene", "s", "",
		"Scene name or path (default: the trace's scene, then config)")
	simulateCmd.Flags().StringVarP(&simulateOpts.trace, "trace", "t", "",
		"Trace file to replay")
	simulateCmd.Flags().StringVarP(&simulateOpts.output, "output", "o", "plain",
		"Output format (plain, json, yaml)")
	simulateCmd.Flags().BoolVar(&simulateOpts.keepOpen, "keep-open", false,
		"Keep the popover open after a close request")
	_ = simulateCmd.MarkFlagRequired("trace")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	formatter, err := createFormatter(simulateOpts.output, "")
	if err != nil {
		return err
	}

	tr, err := trace.Load(simulateOpts.trace)
	if err != nil {
		return err
	}

	name := simulateOpts.scene
	if name == "" {
		name = tr.Scene
	}
	scene, err := loadScene(name)
	if err != nil {
		return err
	}

	c := getConfig()
	wait, maxWait := c.Timings()
	res, err := trace.Replay(scene, tr, trace.Settings{
		Placement:   c.Placement(),
		Display:     c.DisplayOptions(),
		Wait:        wait,
		MaxWait:     maxWait,
		PanelWidth:  c.Popover.PanelWidth,
		PanelHeight: c.Popover.PanelHeight,
		KeepOpen:    simulateOpts.keepOpen,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to replay trace: %w", err)
	}

	return formatter.Format(os.Stdout, res)
}
