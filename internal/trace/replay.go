package trace

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/jmylchreest/popover/internal/debounce"
	"github.com/jmylchreest/popover/internal/display"
	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/hover"
	"github.com/jmylchreest/popover/internal/layout"
	"github.com/jmylchreest/popover/internal/pointer"
	"github.com/jmylchreest/popover/internal/popover"
)

// epoch is the fixed start time of every replay so results are stable.
var epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Settings configures a replay. Zero timings and a zero Display use the
// debounce and display defaults.
type Settings struct {
	Placement   display.Placement
	Display     display.Options
	Wait        time.Duration
	MaxWait     time.Duration
	PanelWidth  float64
	PanelHeight float64
	// KeepOpen leaves the popover open after a close request instead of
	// closing it as a host normally would.
	KeepOpen bool
}

// Dismissal is one close request observed during a replay.
type Dismissal struct {
	At     time.Duration `json:"at" yaml:"at"`
	Reason string        `json:"reason" yaml:"reason"`
	Point  geom.Point    `json:"point" yaml:"point"`
}

// Result summarizes a replay.
type Result struct {
	Scene      string        `json:"scene" yaml:"scene"`
	HitRegion  geom.Rect     `json:"hit_region" yaml:"hit_region"`
	Events     int           `json:"events" yaml:"events"`
	Moves      int           `json:"moves" yaml:"moves"`
	Clicks     int           `json:"clicks" yaml:"clicks"`
	Span       time.Duration `json:"span" yaml:"span"`
	Dismissals []Dismissal   `json:"dismissals" yaml:"dismissals"`
}

// Replay opens a popover on the scene's anchor and feeds it the trace.
// The popover is opened at offset zero unless the trace starts with an
// explicit open event.
func Replay(scene *layout.Scene, tr *Trace, s Settings, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	if s.Wait <= 0 {
		s.Wait = debounce.DefaultWait
	}
	if s.MaxWait <= 0 {
		s.MaxWait = debounce.DefaultMaxWait
	}

	clock := debounce.NewManualClock(epoch)
	bus := pointer.NewBus()
	res := &Result{Scene: scene.Name, Span: tr.Span()}

	var ctrl *popover.Controller
	ctrl, err := popover.New(popover.Config{
		Anchor:      scene.Anchor(),
		Parent:      scene.Parent(),
		Viewport:    scene.Document,
		Placement:   s.Placement,
		Display:     s.Display,
		PanelWidth:  s.PanelWidth,
		PanelHeight: s.PanelHeight,
	}, func(reason popover.Reason, at geom.Point) {
		res.Dismissals = append(res.Dismissals, Dismissal{
			At:     clock.Now().Sub(epoch),
			Reason: reason.String(),
			Point:  at,
		})
		if !s.KeepOpen {
			ctrl.Close()
		}
	}, logger,
		hover.WithStream(bus),
		hover.WithClock(clock),
		hover.WithClassifier(pointer.Static(pointer.Fine)),
		hover.WithWait(s.Wait),
		hover.WithMaxWait(s.MaxWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create popover for scene %s: %w", scene.Name, err)
	}

	if len(tr.Events) == 0 || tr.Events[0].Action != ActionOpen {
		ctrl.Open()
	}
	if r, ok := ctrl.HitRegion(); ok {
		res.HitRegion = r
	}

	now := time.Duration(0)
	for _, ev := range tr.Events {
		clock.Advance(ev.At.Duration() - now)
		now = ev.At.Duration()
		p := geom.Point{X: ev.X, Y: ev.Y}
		res.Events++

		switch ev.Action {
		case ActionMove:
			res.Moves++
			bus.Publish(p)
		case ActionClick:
			res.Clicks++
			ctrl.OutsideClick(p)
		case ActionOpen:
			ctrl.Open()
			if r, ok := ctrl.HitRegion(); ok {
				res.HitRegion = r
			}
		case ActionClose:
			ctrl.Close()
		case ActionScroll:
			scene.Document.ScrollTo(ev.X, ev.Y)
			ctrl.Invalidate()
		}
	}

	// Let any pending check settle.
	settle := s.MaxWait
	if settle < s.Wait {
		settle = s.Wait
	}
	clock.Advance(2 * settle)
	ctrl.Close()

	return res, nil
}

// Summary renders a human-readable report.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scene %s, hit-region %s\n", r.Scene, r.HitRegion)
	fmt.Fprintf(&b, "replayed %s events (%s moves, %s clicks) over %s\n",
		humanize.Comma(int64(r.Events)),
		humanize.Comma(int64(r.Moves)),
		humanize.Comma(int64(r.Clicks)),
		r.Span,
	)
	if len(r.Dismissals) == 0 {
		b.WriteString("no close requests\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%s close %s\n",
		humanize.Comma(int64(len(r.Dismissals))),
		english.PluralWord(len(r.Dismissals), "request", ""),
	)
	for i, d := range r.Dismissals {
		fmt.Fprintf(&b, "  %s at %s: %s %s\n", humanize.Ordinal(i+1), d.At, d.Reason, d.Point)
	}
	return b.String()
}

// PlainText implements output.Plain.
func (r *Result) PlainText() string {
	return r.Summary()
}
