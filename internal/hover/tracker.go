package hover

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/popover/internal/debounce"
	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/pointer"
)

// State is the tracker lifecycle state.
type State int

const (
	StateIdle State = iota
	StateTracking
)

func (s State) String() string {
	if s == StateTracking {
		return "tracking"
	}
	return "idle"
}

// Session describes one Start/Stop cycle.
type Session struct {
	ID         string
	StartedAt  time.Time
	LastSample time.Time // Zero until the first raw sample arrives
	Samples    int       // Raw samples received
	Checks     int       // Debounced checks run
	Dismissals int       // onOutside invocations
}

// Tracker decides, on a debounced cadence, whether the pointer has left the
// hit-region.
type Tracker struct {
	onOutside func(geom.Point)
	region    RegionProvider

	stream   pointer.Stream
	classify pointer.Classifier
	clock    debounce.Clock
	wait     time.Duration
	maxWait  time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	sub       pointer.Subscription
	debouncer *debounce.Debouncer[geom.Point]
	session   *Session
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithStream sets the pointer stream the tracker subscribes to.
func WithStream(s pointer.Stream) Option {
	return func(t *Tracker) { t.stream = s }
}

// WithClassifier sets the device capability classifier.
func WithClassifier(c pointer.Classifier) Option {
	return func(t *Tracker) { t.classify = c }
}

// WithClock sets the clock used for debouncing.
func WithClock(c debounce.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithWait sets the quiet period before a check runs.
func WithWait(d time.Duration) Option {
	return func(t *Tracker) { t.wait = d }
}

// WithMaxWait sets the longest a burst of movement can defer a check.
func WithMaxWait(d time.Duration) Option {
	return func(t *Tracker) { t.maxWait = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// NewTracker creates an idle tracker. onOutside is called once per
// debounced check that finds the pointer outside the region.
func NewTracker(onOutside func(geom.Point), region RegionProvider, opts ...Option) *Tracker {
	t := &Tracker{
		onOutside: onOutside,
		region:    region,
		classify:  pointer.Static(pointer.Fine),
		clock:     debounce.SystemClock{},
		wait:      debounce.DefaultWait,
		maxWait:   debounce.DefaultMaxWait,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// Start subscribes to the pointer stream. On devices that cannot hover, or
// without a stream, it does nothing and the tracker stays idle.
// The host must pair every Start with a Stop; a repeated Start releases the
// previous subscription first.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c := t.classify(); !c.CanHover() {
		t.logger.Debug("pointer cannot hover, not tracking", "capability", c.String())
		return
	}
	if t.stream == nil {
		t.logger.Warn("no pointer stream configured, not tracking")
		return
	}

	t.releaseLocked()

	id, err := ulid.New(ulid.Timestamp(t.clock.Now()), rand.Reader)
	if err != nil {
		t.logger.Warn("failed to generate session id", "error", err)
	}
	session := &Session{ID: id.String(), StartedAt: t.clock.Now()}

	d := debounce.New(t.wait, t.maxWait, t.clock, func(p geom.Point) {
		t.check(session, p)
	})
	t.debouncer = d
	t.session = session
	t.sub = t.stream.Subscribe(func(p geom.Point) {
		t.observe(session)
		d.Call(p)
	})
	t.state = StateTracking

	t.logger.Debug("hover tracking started",
		"session", session.ID,
		"wait", t.wait,
		"max_wait", t.maxWait,
	)
}

// Stop cancels any pending check and unsubscribes. Safe to call when idle
// and more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle && t.sub == nil {
		return
	}
	session := t.session
	t.releaseLocked()
	t.state = StateIdle

	if session != nil {
		t.logger.Debug("hover tracking stopped",
			"session", session.ID,
			"samples", session.Samples,
			"checks", session.Checks,
			"dismissals", session.Dismissals,
		)
	}
}

// releaseLocked cancels the debouncer before unsubscribing so no pending
// check from this session can run afterwards.
func (t *Tracker) releaseLocked() {
	if t.debouncer != nil {
		t.debouncer.Cancel()
		t.debouncer = nil
	}
	if t.sub != nil {
		t.sub.Unsubscribe()
		t.sub = nil
	}
	t.session = nil
}

// observe records a raw sample against the session.
func (t *Tracker) observe(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.Samples++
	s.LastSample = t.clock.Now()
}

// Check runs the containment test for p immediately and invokes onOutside
// when p is outside an established region. It reports whether it did.
// An unset region never dismisses.
func (t *Tracker) Check(p geom.Point) bool {
	t.mu.Lock()
	session := t.session
	t.mu.Unlock()
	return t.check(session, p)
}

func (t *Tracker) check(s *Session, p geom.Point) bool {
	t.mu.Lock()
	if s != nil {
		s.Checks++
	}
	t.mu.Unlock()

	if t.region == nil {
		return false
	}
	rect, ok := t.region()
	if !ok {
		t.logger.Debug("hit-region not established, ignoring sample", "point", p.String())
		return false
	}
	if rect.Contains(p) {
		return false
	}

	// A check whose session ended while it ran must not dismiss.
	t.mu.Lock()
	if t.session != s {
		t.mu.Unlock()
		t.logger.Debug("session ended during check, ignoring sample", "point", p.String())
		return false
	}
	if s != nil {
		s.Dismissals++
	}
	t.mu.Unlock()

	t.logger.Debug("pointer outside hit-region", "point", p.String(), "region", rect.String())
	if t.onOutside != nil {
		t.onOutside(p)
	}
	return true
}

// State returns the current lifecycle state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Session returns a copy of the active session, or nil when idle.
func (t *Tracker) Session() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return nil
	}
	s := *t.session
	return &s
}
