package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popover/internal/layout"
)

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List available scenes",
	Long: `List the embedded scenes and any scenes in the user scene directory.
User scenes shadow embedded scenes of the same name.`,
	RunE: runScenes,
}

func init() {
	rootCmd.AddCommand(scenesCmd)
}

type sceneEntry struct {
	name   string
	source string
	boxes  int
	anchor string
}

func runScenes(cmd *cobra.Command, args []string) error {
	entries := map[string]sceneEntry{}

	for _, name := range layout.ListEmbeddedScenes() {
		scene, ok := layout.GetEmbeddedScene(name)
		if !ok {
			continue
		}
		entries[name] = describeScene(name, "embedded", scene)
	}

	dir := getConfig().SceneDir()
	if dir != "" {
		files, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to read scene directory", "dir", dir, "error", err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".xml") {
				continue
			}
			name := strings.TrimSuffix(f.Name(), ".xml")
			path := filepath.Join(dir, f.Name())
			scene, err := layout.LoadScene(path)
			if err != nil {
				logger.Warn("skipping invalid scene", "path", path, "error", err)
				continue
			}
			source := path
			if info, err := f.Info(); err == nil {
				source = fmt.Sprintf("%s (modified %s)", path, humanize.Time(info.ModTime()))
			}
			entries[name] = describeScene(name, source, scene)
		}
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := entries[name]
		anchor := e.anchor
		if anchor == "" {
			anchor = "-"
		}
		fmt.Printf("%-16s %3d boxes  anchor=%-12s %s\n", e.name, e.boxes, anchor, e.source)
	}
	return nil
}

func describeScene(name, source string, scene *layout.Scene) sceneEntry {
	e := sceneEntry{name: name, source: source, boxes: len(scene.Boxes())}
	if a := scene.Anchor(); a != nil {
		e.anchor = a.ID
	}
	return e
}
