package layout

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a scene file and reloads it on change.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	onChange func(*Scene)
	logger   *slog.Logger
	done     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewFileWatcher creates a watcher for the scene at filePath. onChange
// receives each successfully reloaded scene; parse failures are logged and
// the previous scene stays in effect.
func NewFileWatcher(filePath string, onChange func(*Scene), logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		filePath: filePath,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start begins watching the file for changes.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}

	// Watch the directory containing the file (editors replace files on save)
	if err := fw.watcher.Add(filepath.Dir(fw.filePath)); err != nil {
		return err
	}
	fw.running = true

	go fw.watch()
	return nil
}

// watch is the main watch loop.
func (fw *FileWatcher) watch() {
	defer close(fw.stopped)
	filename := filepath.Base(fw.filePath)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			// Only care about our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.reload()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("scene watcher error", "error", err)

		case <-fw.done:
			return
		}
	}
}

func (fw *FileWatcher) reload() {
	scene, err := LoadScene(fw.filePath)
	if err != nil {
		fw.logger.Warn("failed to reload scene", "file", fw.filePath, "error", err)
		return
	}
	fw.logger.Debug("scene changed, reloaded", "file", fw.filePath)
	if fw.onChange != nil {
		fw.onChange(scene)
	}
}

// Stop stops the file watcher. Safe to call more than once.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.running {
		return nil
	}

	fw.running = false
	close(fw.done)
	err := fw.watcher.Close()
	<-fw.stopped
	return err
}
