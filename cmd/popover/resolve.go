package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/hover"
	"github.com/jmylchreest/popover/internal/output"
	"github.com/jmylchreest/popover/internal/pointer"
	"github.com/jmylchreest/popover/internal/popover"
)

var resolveOpts struct {
	scene    string
	id       string
	output   string
	template string
	popover  bool
}

// resolvedBox is the output of resolve for a single box.
type resolvedBox struct {
	Scene string    `json:"scene" yaml:"scene"`
	ID    string    `json:"id" yaml:"id"`
	Rect  geom.Rect `json:"rect" yaml:"rect"`
}

// PlainText implements output.Plain.
func (r resolvedBox) PlainText() string {
	return fmt.Sprintf("%s %s", r.ID, r.Rect)
}

// resolvedPopover is the output of resolve --popover.
type resolvedPopover struct {
	Scene     string    `json:"scene" yaml:"scene"`
	Placement string    `json:"placement" yaml:"placement"`
	Anchor    geom.Rect `json:"anchor" yaml:"anchor"`
	HitRegion geom.Rect `json:"hit_region" yaml:"hit_region"`
	Panel     geom.Rect `json:"panel" yaml:"panel"`
}

// PlainText implements output.Plain.
func (r resolvedPopover) PlainText() string {
	return fmt.Sprintf("placement %s\nanchor %s\nhit-region %s\npanel %s",
		r.Placement, r.Anchor, r.HitRegion, r.Panel)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the absolute rectangle of a box in a scene",
	Long: `Resolve a box's position in document space by walking its offset
parent chain, accounting for borders and scroll offsets.

With --popover, opens a popover on the scene's anchor and prints the
anchor, hit-region and panel rectangles instead.

Examples:
  # Resolve the anchor of the default scene
  popover resolve --id button

  # Resolve a box in a user scene as YAML
  popover resolve --scene ./toolbar.xml --id search --output yaml

  # Print only the origin
  popover resolve --id search --template '{{.Rect.X}},{{.Rect.Y}}'

  # Show popover geometry
  popover resolve --popover`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveOpts.scene, "scene", "s", "",
		"Scene name or path (default from config)")
	resolveCmd.Flags().StringVar(&resolveOpts.id, "id", "",
		"Box id to resolve (default: the scene's anchor)")
	resolveCmd.Flags().StringVarP(&resolveOpts.output, "output", "o", "json",
		"Output format (json, yaml, plain)")
	resolveCmd.Flags().StringVar(&resolveOpts.template, "template", "",
		"Custom Go template for plain output")
	resolveCmd.Flags().BoolVar(&resolveOpts.popover, "popover", false,
		"Print popover geometry for the scene's anchor")
}

func runResolve(cmd *cobra.Command, args []string) error {
	formatter, err := createFormatter(resolveOpts.output, resolveOpts.template)
	if err != nil {
		return err
	}

	scene, err := loadScene(resolveOpts.scene)
	if err != nil {
		return err
	}

	if resolveOpts.popover {
		c := getConfig()
		ctrl, err := popover.New(popover.Config{
			Anchor:      scene.Anchor(),
			Parent:      scene.Parent(),
			Viewport:    scene.Document,
			Placement:   c.Placement(),
			Display:     c.DisplayOptions(),
			PanelWidth:  c.Popover.PanelWidth,
			PanelHeight: c.Popover.PanelHeight,
		}, nil, logger, hover.WithClassifier(pointer.Static(pointer.None)))
		if err != nil {
			return fmt.Errorf("failed to create popover: %w", err)
		}
		ctrl.Open()
		defer ctrl.Close()

		region, _ := ctrl.HitRegion()
		return formatter.Format(os.Stdout, resolvedPopover{
			Scene:     scene.Name,
			Placement: string(c.Placement()),
			Anchor:    scene.Document.Resolve(ctrl.Anchor()),
			HitRegion: region,
			Panel:     ctrl.Panel(),
		})
	}

	id := resolveOpts.id
	if id == "" {
		if a := scene.Anchor(); a != nil {
			id = a.ID
		}
	}
	if id == "" {
		return fmt.Errorf("scene %s has no anchor; pass --id", scene.Name)
	}
	rect, ok := scene.Rect(id)
	if !ok {
		return fmt.Errorf("box not found in scene %s: %s", scene.Name, id)
	}
	return formatter.Format(os.Stdout, resolvedBox{
		Scene: scene.Name,
		ID:    id,
		Rect:  rect,
	})
}

// createFormatter creates the output formatter for a format name. A
// template implies plain output.
func createFormatter(format, tmpl string) (output.Formatter, error) {
	if tmpl != "" {
		format = string(output.FormatPlain)
	}
	ft, err := output.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(ft, output.FormatterOptions{Template: tmpl}), nil
}
