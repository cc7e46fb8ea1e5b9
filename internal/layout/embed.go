package layout

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scenes/*.xml
var EmbeddedScenes embed.FS

// GetEmbeddedScene returns an embedded scene by name.
// The name should not include the .xml extension.
func GetEmbeddedScene(name string) (*Scene, bool) {
	data, err := EmbeddedScenes.ReadFile("scenes/" + name + ".xml")
	if err != nil {
		return nil, false
	}

	scene, err := ParseSceneString(string(data))
	if err != nil {
		return nil, false
	}
	if scene.Name == "" {
		scene.Name = name
	}
	return scene, true
}

// ListEmbeddedScenes returns the names of all embedded scenes.
func ListEmbeddedScenes() []string {
	entries, err := EmbeddedScenes.ReadDir("scenes")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".xml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".xml"))
		}
	}
	return names
}

// Loader loads scenes from a user directory with embedded fallbacks.
type Loader struct {
	scenesDir string
}

// NewLoader creates a new scene loader.
func NewLoader(scenesDir string) *Loader {
	return &Loader{scenesDir: scenesDir}
}

// Resolve returns the file path a scene name refers to, or "" when it
// would come from the embedded set. Names containing a path separator or
// ending in .xml are treated as paths.
func (l *Loader) Resolve(name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasSuffix(name, ".xml") {
		return name
	}
	if l.scenesDir != "" {
		path := filepath.Join(l.scenesDir, name+".xml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load loads a scene by name or path.
// Checks the user directory first, then falls back to embedded scenes.
func (l *Loader) Load(name string) (*Scene, error) {
	if name == "" {
		name = "default"
	}
	if path := l.Resolve(name); path != "" {
		return LoadScene(path)
	}
	if scene, ok := GetEmbeddedScene(name); ok {
		return scene, nil
	}
	return nil, fmt.Errorf("scene not found: %s", name)
}
