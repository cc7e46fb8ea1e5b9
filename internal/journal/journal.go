package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Entry is one finished open cycle.
type Entry struct {
	Session    string    `json:"session" yaml:"session"`
	Scene      string    `json:"scene" yaml:"scene"`
	Anchor     string    `json:"anchor" yaml:"anchor"`
	Placement  string    `json:"placement" yaml:"placement"`
	OpenedAt   time.Time `json:"opened_at" yaml:"opened_at"`
	ClosedAt   time.Time `json:"closed_at" yaml:"closed_at"`
	Reason     string    `json:"reason" yaml:"reason"`
	Samples    int       `json:"samples" yaml:"samples"`
	Checks     int       `json:"checks" yaml:"checks"`
	Dismissals int       `json:"dismissals" yaml:"dismissals"`
}

// Duration returns how long the popover was open.
func (e Entry) Duration() time.Duration {
	return e.ClosedAt.Sub(e.OpenedAt)
}

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	PopoverSchemaVersion int   `json:"popover_schema_version"`
	CreatedAt            int64 `json:"created_at"`
}

// ErrJournalClosed is returned when operations are attempted on a closed journal.
var ErrJournalClosed = errors.New("journal is closed")

// Journal appends entries to a JSONL file.
type Journal struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	j := &Journal{path: path, file: file}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := j.writeHeader(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	return j, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) writeHeader() error {
	data, err := json.Marshal(schemaHeader{
		PopoverSchemaVersion: SchemaVersion,
		CreatedAt:            time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = j.file.Write(append(data, '\n'))
	return err
}

// Load reads all entries. Malformed lines are skipped.
func (j *Journal) Load() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed || j.file == nil {
		return nil, ErrJournalClosed
	}

	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", j.path, err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(j.file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.PopoverSchemaVersion > 0 {
				if header.PopoverSchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
						header.PopoverSchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil || e.Session == "" {
			continue
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("error reading file: %w", err)
	}

	if _, err := j.file.Seek(0, io.SeekEnd); err != nil {
		return entries, err
	}
	return entries, nil
}

// Append adds an entry.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed || j.file == nil {
		return ErrJournalClosed
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return j.file.Sync()
}

// Prune keeps only the newest keep entries and reports how many were
// removed.
func (j *Journal) Prune(keep int) (int, error) {
	entries, err := j.Load()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(entries) <= keep {
		return 0, nil
	}
	removed := len(entries) - keep
	if err := j.rewrite(entries[removed:]); err != nil {
		return 0, err
	}
	return removed, nil
}

// rewrite replaces the file contents, keeping a backup until the new file
// is synced.
func (j *Journal) rewrite(entries []Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrJournalClosed
	}

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			return err
		}
		j.file = nil
	}

	backupPath := j.path + ".bak"
	if err := os.Rename(j.path, backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0600)
	if err != nil {
		_ = os.Rename(backupPath, j.path)
		return fmt.Errorf("failed to create new file: %w", err)
	}
	j.file = file

	if err := j.writeHeader(); err != nil {
		return err
	}
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := j.file.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	if err := j.file.Sync(); err != nil {
		return err
	}

	_ = os.Remove(backupPath)
	return nil
}

// Close releases the file handle. Safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true

	if j.file != nil {
		err := j.file.Close()
		j.file = nil
		return err
	}
	return nil
}

// Recent returns up to n of the newest entries, newest first.
func Recent(entries []Entry, n int) []Entry {
	if n <= 0 || n > len(entries) {
		n = len(entries)
	}
	out := make([]Entry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out
}
