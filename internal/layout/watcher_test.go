package layout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<scene><box id="a" role="anchor" width="1" height="1" /></scene>`), 0644))

	changes := make(chan *Scene, 4)
	fw, err := NewFileWatcher(path, func(s *Scene) {
		select {
		case changes <- s:
		default:
		}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	require.NoError(t, fw.Start())
	defer func() { _ = fw.Stop() }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xml"), []byte(`<scene />`), 0644))

	updated := `<scene><box id="b" role="anchor" offset-left="5" width="1" height="1" /></scene>`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case s := <-changes:
		assert.Equal(t, "live", s.Name)
		assert.NotNil(t, s.Find("b"))
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.xml")
	fw, err := NewFileWatcher(path, nil, nil)
	require.NoError(t, err)

	assert.NoError(t, fw.Stop())
	require.NoError(t, fw.Start())
	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
