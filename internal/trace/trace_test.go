package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popover/internal/display"
	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/layout"
)

func defaultSettings() Settings {
	return Settings{
		Placement:   display.PlacementTop,
		Display:     display.DefaultOptions(),
		Wait:        250 * time.Millisecond,
		MaxWait:     500 * time.Millisecond,
		PanelWidth:  160,
		PanelHeight: 96,
	}
}

func loadDefaultScene(t *testing.T) *layout.Scene {
	t.Helper()
	scene, ok := layout.GetEmbeddedScene("default")
	require.True(t, ok)
	return scene
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, tr *Trace)
	}{
		{
			name: "offsets as strings and integers",
			input: `
scene: default
events:
  - at: 0
    x: 1
    y: 2
  - at: 250ms
    action: click
    x: 3
    y: 4
  - at: 1s
    action: scroll
    y: 100
`,
			check: func(t *testing.T, tr *Trace) {
				assert.Equal(t, "default", tr.Scene)
				require.Len(t, tr.Events, 3)
				assert.Equal(t, ActionMove, tr.Events[0].Action)
				assert.Equal(t, 250*time.Millisecond, tr.Events[1].At.Duration())
				assert.Equal(t, ActionClick, tr.Events[1].Action)
				assert.Equal(t, time.Second, tr.Span())
			},
		},
		{
			name:  "empty document",
			input: "",
			check: func(t *testing.T, tr *Trace) {
				assert.Empty(t, tr.Events)
				assert.Zero(t, tr.Span())
			},
		},
		{
			name:    "out of order",
			input:   "events:\n  - at: 20\n  - at: 10\n",
			wantErr: "before previous event",
		},
		{
			name:    "unknown action",
			input:   "events:\n  - at: 0\n    action: hover\n",
			wantErr: "unknown action",
		},
		{
			name:    "bad offset",
			input:   "events:\n  - at: soon\n",
			wantErr: "invalid offset",
		},
		{
			name:    "unknown field",
			input:   "events:\n  - at: 0\n    z: 1\n",
			wantErr: "failed to parse trace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, tr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - at: 5ms\n    x: 1\n    y: 1\n"), 0o644))

	tr, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, tr.Events, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReplay_PointerLeaves(t *testing.T) {
	tr := &Trace{Events: []Event{
		{At: Offset(0), X: 300, Y: 300},
		{At: Offset(time.Second), X: 300, Y: 600},
	}}

	res, err := Replay(loadDefaultScene(t), tr, defaultSettings(), nil)
	require.NoError(t, err)

	assert.Equal(t, geom.Rect{X: 100, Y: 250, Width: 600, Height: 190}, res.HitRegion)
	assert.Equal(t, 2, res.Moves)
	require.Len(t, res.Dismissals, 1)
	assert.Equal(t, 1250*time.Millisecond, res.Dismissals[0].At)
	assert.Equal(t, "pointer-left", res.Dismissals[0].Reason)
	assert.Equal(t, geom.Point{X: 300, Y: 600}, res.Dismissals[0].Point)
}

func TestReplay_ContinuousMotionHitsCeiling(t *testing.T) {
	tr := &Trace{}
	for i := 0; i < 100; i++ {
		tr.Events = append(tr.Events, Event{
			At: Offset(time.Duration(i) * 10 * time.Millisecond),
			X:  float64(i),
			Y:  700,
		})
	}

	res, err := Replay(loadDefaultScene(t), tr, defaultSettings(), nil)
	require.NoError(t, err)

	// The first check is forced by the ceiling; the host then closes the
	// popover so later samples are ignored.
	require.Len(t, res.Dismissals, 1)
	assert.Equal(t, 500*time.Millisecond, res.Dismissals[0].At)
	assert.Equal(t, geom.Point{X: 49, Y: 700}, res.Dismissals[0].Point)
}

func TestReplay_KeepOpenRepeatsRequests(t *testing.T) {
	tr := &Trace{Events: []Event{
		{At: Offset(0), X: 5, Y: 5},
		{At: Offset(time.Second), X: 6, Y: 6},
	}}
	s := defaultSettings()
	s.KeepOpen = true

	res, err := Replay(loadDefaultScene(t), tr, s, nil)
	require.NoError(t, err)
	assert.Len(t, res.Dismissals, 2)
}

func TestReplay_ScrollMovesRegion(t *testing.T) {
	tr := &Trace{Events: []Event{
		{At: Offset(0), Action: ActionScroll, X: 0, Y: 200},
		{At: Offset(10 * time.Millisecond), X: 300, Y: 300},
	}}

	res, err := Replay(loadDefaultScene(t), tr, defaultSettings(), nil)
	require.NoError(t, err)

	// Region moved up to y=50..240, so (300,300) is now outside.
	require.Len(t, res.Dismissals, 1)
	assert.Equal(t, 260*time.Millisecond, res.Dismissals[0].At)
}

func TestReplay_ClickAndReopen(t *testing.T) {
	tr := &Trace{Events: []Event{
		{At: Offset(0), Action: ActionOpen},
		{At: Offset(100 * time.Millisecond), Action: ActionClick, X: 525, Y: 410},
		{At: Offset(200 * time.Millisecond), Action: ActionClick, X: 10, Y: 10},
		{At: Offset(300 * time.Millisecond), Action: ActionClick, X: 10, Y: 10},
		{At: Offset(400 * time.Millisecond), Action: ActionOpen},
		{At: Offset(500 * time.Millisecond), Action: ActionClose},
	}}

	res, err := Replay(loadDefaultScene(t), tr, defaultSettings(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Clicks)
	require.Len(t, res.Dismissals, 1, "anchor click ignored, click while closed ignored")
	assert.Equal(t, "outside-click", res.Dismissals[0].Reason)
	assert.Equal(t, 200*time.Millisecond, res.Dismissals[0].At)
}

func TestReplay_ZeroSettingsUseDefaults(t *testing.T) {
	tr := &Trace{Events: []Event{
		{At: Offset(0), X: 300, Y: 420},
		{At: Offset(time.Second), X: 300, Y: 900},
	}}

	res, err := Replay(loadDefaultScene(t), tr, Settings{}, nil)
	require.NoError(t, err)

	assert.Equal(t, geom.Rect{X: 100, Y: 360, Width: 600, Height: 190}, res.HitRegion)
	require.Len(t, res.Dismissals, 1, "the trailing check settles before the replay ends")
	assert.Equal(t, 1250*time.Millisecond, res.Dismissals[0].At)
	assert.Equal(t, geom.Point{X: 300, Y: 900}, res.Dismissals[0].Point)
}

func TestReplay_NoAnchor(t *testing.T) {
	scene, err := layout.ParseSceneString(`<scene name="bare"><box id="a" width="10" height="10"/></scene>`)
	require.NoError(t, err)

	_, err = Replay(scene, &Trace{}, defaultSettings(), nil)
	assert.Error(t, err)
}

func TestResult_Summary(t *testing.T) {
	res := &Result{
		Scene:     "default",
		HitRegion: geom.Rect{X: 1, Y: 2, Width: 3, Height: 4},
		Events:    1200,
		Moves:     1199,
		Clicks:    1,
		Span:      12 * time.Second,
		Dismissals: []Dismissal{
			{At: 500 * time.Millisecond, Reason: "pointer-left", Point: geom.Point{X: 1, Y: 2}},
		},
	}

	out := res.Summary()
	assert.Contains(t, out, "replayed 1,200 events (1,199 moves, 1 clicks) over 12s")
	assert.Contains(t, out, "1 close request\n")

	two := &Result{Scene: "x", Dismissals: []Dismissal{{Reason: "a"}, {Reason: "b"}}}
	assert.Contains(t, two.Summary(), "2 close requests\n")
	assert.Contains(t, out, "1st at 500ms: pointer-left")

	empty := (&Result{Scene: "x"}).Summary()
	assert.Contains(t, empty, "no close requests")
}
