// Package playback implements the timed state machine that sequences
// story display: a session advances through an ordered story list,
// exposing progress, pause/resume and manual navigation. Display order
// is the caller's responsibility.
package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/hamza-bely/4hybd/internal/models"
)

const (
	// TickInterval is the real-time resolution of automatic advance.
	TickInterval = 100 * time.Millisecond
	// ImageDuration is how long an image story plays.
	ImageDuration = 5 * time.Second
	// VideoDuration is how long a video story plays.
	VideoDuration = 10 * time.Second
)

var (
	ErrNoStories       = errors.New("playback: no stories to play")
	ErrIndexOutOfRange = errors.New("playback: initial index out of range")
)

// State is the lifecycle state of a session.
type State int

const (
	StateClosed State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "closed"
	}
}

// Snapshot is the observable session state. Progress is scoped to the
// current index and lives in [0,1).
type Snapshot struct {
	State    State   `json:"state"`
	Index    int     `json:"index"`
	Progress float64 `json:"progress"`
}

// Ticker abstracts the timer source so sessions are testable without
// real time passing.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds the timer driving automatic advance.
type TickerFactory func(interval time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(interval time.Duration) Ticker {
	return realTicker{t: time.NewTicker(interval)}
}

// Session is a playback state machine over an ordered story list. All
// transitions, timer-driven or manual, are serialized on one mutex; at
// most one timer is live per open session, and no tick is applied
// after the session closes. Callbacks fire under that same mutex, so
// observers see transitions in the order they were applied; a callback
// must not call back into the session.
type Session struct {
	mu      sync.Mutex
	stories []models.Story
	index   int
	elapsed time.Duration
	state   State

	tickInterval time.Duration
	newTicker    TickerFactory
	ticker       Ticker
	done         chan struct{}
	generation   uint64

	onChange func(Snapshot)
	onClose  func()
}

// Option configures a Session.
type Option func(*Session)

// WithTicker overrides the timer source.
func WithTicker(factory TickerFactory) Option {
	return func(s *Session) { s.newTicker = factory }
}

// WithTickInterval overrides the tick resolution.
func WithTickInterval(interval time.Duration) Option {
	return func(s *Session) { s.tickInterval = interval }
}

// WithOnChange registers a callback invoked on every state change,
// with the session lock held. It must not call back into the session.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// WithOnClose registers a callback invoked once the session closes,
// whether explicitly or by running off the end of the list. Like
// OnChange it runs under the session lock.
func WithOnClose(fn func()) Option {
	return func(s *Session) { s.onClose = fn }
}

// NewSession builds a closed session; Open starts playback.
func NewSession(opts ...Option) *Session {
	s := &Session{
		state:        StateClosed,
		tickInterval: TickInterval,
		newTicker:    newRealTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts playing at initialIndex with progress 0. Opening an
// already open session releases its timer first, so a session never
// drives two timers at once.
func (s *Session) Open(stories []models.Story, initialIndex int) error {
	if len(stories) == 0 {
		return ErrNoStories
	}
	if initialIndex < 0 || initialIndex >= len(stories) {
		return ErrIndexOutOfRange
	}

	s.mu.Lock()
	if s.state != StateClosed {
		s.releaseTimerLocked()
	}
	s.stories = stories
	s.index = initialIndex
	s.elapsed = 0
	s.state = StatePlaying

	ticker := s.newTicker(s.tickInterval)
	done := make(chan struct{})
	s.ticker = ticker
	s.done = done
	s.generation++
	gen := s.generation
	s.notifyLocked()
	s.mu.Unlock()

	go s.run(ticker, done, gen)
	return nil
}

func (s *Session) run(ticker Ticker, done chan struct{}, gen uint64) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			s.tick(gen)
		}
	}
}

// Tick applies one timer interval of progress. It is a no-op unless
// the session is playing.
func (s *Session) Tick() {
	s.mu.Lock()
	s.advanceLocked()
	s.mu.Unlock()
}

// tick applies a timer-driven tick, dropping ticks from a timer that
// belongs to an earlier Open.
func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.advanceLocked()
	s.mu.Unlock()
}

func (s *Session) advanceLocked() {
	if s.state != StatePlaying {
		return
	}

	s.elapsed += s.tickInterval
	if s.elapsed >= StoryDuration(s.stories[s.index]) {
		if s.index >= len(s.stories)-1 {
			s.closeLocked()
			s.notifyLocked()
			s.notifyClosedLocked()
			return
		}
		s.index++
		s.elapsed = 0
	}
	s.notifyLocked()
}

// Next advances to the following story, closing the session when
// already on the last one.
func (s *Session) Next() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	if s.index >= len(s.stories)-1 {
		s.closeLocked()
		s.notifyLocked()
		s.notifyClosedLocked()
		s.mu.Unlock()
		return
	}
	s.index++
	s.elapsed = 0
	s.notifyLocked()
	s.mu.Unlock()
}

// Previous steps back one story. At index 0 it is a no-op.
func (s *Session) Previous() {
	s.mu.Lock()
	if s.state == StateClosed || s.index == 0 {
		s.mu.Unlock()
		return
	}
	s.index--
	s.elapsed = 0
	s.notifyLocked()
	s.mu.Unlock()
}

// TogglePause flips playing and paused at the current index and
// progress. Ticks do not apply while paused.
func (s *Session) TogglePause() {
	s.mu.Lock()
	switch s.state {
	case StatePlaying:
		s.state = StatePaused
	case StatePaused:
		s.state = StatePlaying
	default:
		s.mu.Unlock()
		return
	}
	s.notifyLocked()
	s.mu.Unlock()
}

// Close terminally stops the session and releases its timer. It is
// idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.closeLocked()
	s.notifyLocked()
	s.notifyClosedLocked()
	s.mu.Unlock()
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Current returns the story at the current index while the session is
// open.
func (s *Session) Current() (models.Story, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed || s.index >= len(s.stories) {
		return models.Story{}, false
	}
	return s.stories[s.index], true
}

func (s *Session) closeLocked() {
	s.releaseTimerLocked()
	s.state = StateClosed
	s.elapsed = 0
}

// releaseTimerLocked stops the timer and detaches its goroutine. The
// done channel is closed before the state mutates, so the run loop can
// never deliver a tick into a closed session.
func (s *Session) releaseTimerLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// snapshotLocked derives progress from whole elapsed ticks so the
// exact-tick-count advance property is free of float accumulation.
func (s *Session) snapshotLocked() Snapshot {
	var progress float64
	if s.state != StateClosed && s.index < len(s.stories) {
		progress = float64(s.elapsed) / float64(StoryDuration(s.stories[s.index]))
	}
	return Snapshot{State: s.state, Index: s.index, Progress: progress}
}

// notifyLocked delivers the current snapshot under the session lock,
// so observers see transitions in the order they were applied.
func (s *Session) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}

func (s *Session) notifyClosedLocked() {
	if s.onClose != nil {
		s.onClose()
	}
}

// StoryDuration is how long a story plays before automatic advance.
func StoryDuration(story models.Story) time.Duration {
	if story.IsVideo() {
		return VideoDuration
	}
	return ImageDuration
}
