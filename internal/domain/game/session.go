package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/watercycle-memory/internal/domain"
)

// Default timings of a session.
const (
	DefaultMismatchDelay            = 700 * time.Millisecond
	DefaultNoticeDuration           = 3000 * time.Millisecond
	DefaultCompletionNoticeDuration = 5000 * time.Millisecond
	DefaultTickInterval             = time.Second
)

// Timing holds the durations that drive a session's timers.
type Timing struct {
	// MismatchDelay is how long two mismatched cards stay face-up while
	// input is locked.
	MismatchDelay time.Duration
	// NoticeDuration is how long a pair notice stays visible.
	NoticeDuration time.Duration
	// CompletionNoticeDuration is how long the completion notice stays visible.
	CompletionNoticeDuration time.Duration
	// TickInterval is the period of the elapsed-time clock. Each tick adds
	// one second.
	TickInterval time.Duration
}

// DefaultTiming returns the standard game timings.
func DefaultTiming() Timing {
	return Timing{
		MismatchDelay:            DefaultMismatchDelay,
		NoticeDuration:           DefaultNoticeDuration,
		CompletionNoticeDuration: DefaultCompletionNoticeDuration,
		TickInterval:             DefaultTickInterval,
	}
}

// SessionConfig configures a new Session. Zero values are replaced by
// defaults.
type SessionConfig struct {
	Timing    Timing
	Scheduler Scheduler
	Shuffler  domain.Shuffler
	Listener  Listener
}

type cardState struct {
	flipped bool
	matched bool
}

// Session is one game: a deck, its turn state and its counters.
type Session struct {
	mu        sync.Mutex
	timing    Timing
	scheduler Scheduler
	shuffler  domain.Shuffler
	listener  Listener

	deck   domain.Deck
	cards  []cardState
	state  TurnState
	first  int
	second int

	moves   int
	matches int
	seconds int

	// generation is bumped on every reset and on close; timer callbacks
	// scheduled under an older generation do nothing.
	generation   uint64
	clock        Timer
	clockRunning bool
	resolve      Timer

	notice      *Notice
	noticeSeq   uint64
	noticeTimer Timer

	closed bool
}

// NewSession creates a session with a freshly shuffled deck.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = SystemScheduler()
	}
	if cfg.Shuffler == nil {
		cfg.Shuffler = domain.DefaultShuffler
	}

	s := &Session{
		timing:    cfg.Timing,
		scheduler: cfg.Scheduler,
		shuffler:  cfg.Shuffler,
		listener:  cfg.Listener,
	}

	deck, err := s.buildDeck()
	if err != nil {
		return nil, err
	}
	s.resetLocked(deck)

	return s, nil
}

func (s *Session) buildDeck() (domain.Deck, error) {
	deck, err := domain.NewStandardDeck(s.shuffler)
	if err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}
	return deck, nil
}

// Flip turns the card at the given position face-up, applying the pairing
// rules. Flips that cannot apply are reported as ignored, not as errors.
func (s *Session) Flip(position int) (FlipResult, error) {
	s.mu.Lock()
	result, changes, err := s.flipAtLocked(position)
	s.mu.Unlock()
	if err != nil {
		return FlipResult{}, err
	}

	s.dispatch(changes)
	return result, nil
}

// FlipCard is Flip addressed by card instance ID. The lookup and the flip
// happen under the same lock, so a concurrent Reset cannot redirect it.
func (s *Session) FlipCard(uid string) (FlipResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return FlipResult{}, ErrSessionClosed
	}
	idx, err := s.deck.Find(uid)
	if err != nil {
		s.mu.Unlock()
		return FlipResult{}, err
	}
	result, changes, err := s.flipAtLocked(idx)
	s.mu.Unlock()
	if err != nil {
		return FlipResult{}, err
	}

	s.dispatch(changes)
	return result, nil
}

func (s *Session) flipAtLocked(position int) (FlipResult, []Change, error) {
	if s.closed {
		return FlipResult{}, nil, ErrSessionClosed
	}
	if position < 0 || position >= len(s.deck) {
		return FlipResult{}, nil, fmt.Errorf("%w: position %d", domain.ErrCardNotFound, position)
	}
	result, changes := s.flipLocked(position)
	return result, changes, nil
}

func (s *Session) flipLocked(idx int) (FlipResult, []Change) {
	card := s.deck[idx]
	result := FlipResult{CardUID: card.UID}

	switch {
	case s.state == StateLocked:
		return ignore(result, IgnoreLocked), nil
	case s.state == StateComplete:
		return ignore(result, IgnoreComplete), nil
	case s.cards[idx].matched:
		return ignore(result, IgnoreAlreadyMatched), nil
	case s.cards[idx].flipped:
		return ignore(result, IgnoreAlreadyFlipped), nil
	}

	var changes []Change
	s.startClockLocked()
	s.cards[idx].flipped = true
	changes = s.record(changes, ChangeCardFlipped, card.UID)

	if s.state == StateIdle {
		s.first = idx
		s.state = StateOneFlipped
		result.Outcome = OutcomeFirstFlipped
		return result, changes
	}

	// Second card of the attempt.
	s.moves++
	first := s.deck[s.first]

	if !domain.Pairs(first, card) {
		s.second = idx
		s.state = StateLocked
		gen := s.generation
		s.resolve = s.scheduler.AfterFunc(s.timing.MismatchDelay, func() {
			s.resolveMismatch(gen)
		})
		result.Outcome = OutcomeMismatched
		return result, s.record(changes, ChangePairMismatched, first.UID, card.UID)
	}

	s.state = StateMatched
	s.cards[s.first].matched = true
	s.cards[idx].matched = true
	s.first = -1
	s.matches++
	result.Outcome = OutcomeMatched
	changes = s.record(changes, ChangePairMatched, first.UID, card.UID)

	notice := pairNotice(card.Stage)
	notice.Duration = s.timing.NoticeDuration
	s.showNoticeLocked(notice)
	changes = s.record(changes, ChangeNoticeShown)

	if s.matches < s.deck.PairCount() {
		s.state = StateIdle
		return result, changes
	}

	s.stopClockLocked()
	s.state = StateComplete
	result.Outcome = OutcomeWon
	changes = s.record(changes, ChangeGameWon)

	notice = completionNotice(s.seconds, s.moves)
	notice.Duration = s.timing.CompletionNoticeDuration
	s.showNoticeLocked(notice)
	return result, s.record(changes, ChangeNoticeShown)
}

func ignore(result FlipResult, reason IgnoreReason) FlipResult {
	result.Outcome = OutcomeIgnored
	result.Reason = reason
	return result
}

func (s *Session) resolveMismatch(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.state != StateLocked {
		s.mu.Unlock()
		return
	}

	a, b := s.deck[s.first], s.deck[s.second]
	s.cards[s.first].flipped = false
	s.cards[s.second].flipped = false
	s.first, s.second = -1, -1
	s.resolve = nil
	s.state = StateIdle
	changes := s.record(nil, ChangeCardsHidden, a.UID, b.UID)
	s.mu.Unlock()

	s.dispatch(changes)
}

func (s *Session) startClockLocked() {
	if s.clockRunning {
		return
	}
	s.clockRunning = true
	s.scheduleTickLocked()
}

func (s *Session) scheduleTickLocked() {
	gen := s.generation
	s.clock = s.scheduler.AfterFunc(s.timing.TickInterval, func() {
		s.tick(gen)
	})
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation || !s.clockRunning {
		s.mu.Unlock()
		return
	}
	s.seconds++
	s.scheduleTickLocked()
	changes := s.record(nil, ChangeClockTick)
	s.mu.Unlock()

	s.dispatch(changes)
}

func (s *Session) stopClockLocked() {
	s.clockRunning = false
	if s.clock != nil {
		s.clock.Stop()
		s.clock = nil
	}
}

// showNoticeLocked replaces the visible notice and schedules its hide.
func (s *Session) showNoticeLocked(n Notice) {
	s.cancelNoticeTimerLocked()
	s.noticeSeq++
	n.ShownAt = s.scheduler.Now()
	s.notice = &n

	if n.Duration > 0 {
		seq := s.noticeSeq
		s.noticeTimer = s.scheduler.AfterFunc(n.Duration, func() {
			s.hideNotice(seq)
		})
	}
}

func (s *Session) cancelNoticeTimerLocked() {
	if s.noticeTimer != nil {
		s.noticeTimer.Stop()
		s.noticeTimer = nil
	}
}

func (s *Session) hideNotice(seq uint64) {
	s.mu.Lock()
	if s.closed || s.notice == nil || seq != s.noticeSeq {
		s.mu.Unlock()
		return
	}
	s.notice = nil
	s.noticeTimer = nil
	changes := s.record(nil, ChangeNoticeHidden)
	s.mu.Unlock()

	s.dispatch(changes)
}

// DismissNotice hides the visible notice early. It returns false when no
// notice was showing.
func (s *Session) DismissNotice() bool {
	s.mu.Lock()
	if s.closed || s.notice == nil {
		s.mu.Unlock()
		return false
	}
	s.cancelNoticeTimerLocked()
	s.notice = nil
	changes := s.record(nil, ChangeNoticeHidden)
	s.mu.Unlock()

	s.dispatch(changes)
	return true
}

// Reset stops every timer, zeroes the counters and deals a new deck.
func (s *Session) Reset() error {
	deck, err := s.buildDeck()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.resetLocked(deck)
	changes := s.record(nil, ChangeSessionReset)
	s.mu.Unlock()

	s.dispatch(changes)
	return nil
}

func (s *Session) resetLocked(deck domain.Deck) {
	s.releaseTimersLocked()
	s.generation++
	s.notice = nil

	s.deck = deck
	s.cards = make([]cardState, len(deck))
	s.state = StateIdle
	s.first, s.second = -1, -1
	s.moves, s.matches, s.seconds = 0, 0, 0
}

func (s *Session) releaseTimersLocked() {
	s.stopClockLocked()
	if s.resolve != nil {
		s.resolve.Stop()
		s.resolve = nil
	}
	s.cancelNoticeTimerLocked()
}

// Close releases the session's timers. Further operations fail with
// ErrSessionClosed. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.releaseTimersLocked()
	s.generation++
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	views := make([]CardView, len(s.deck))
	for i, card := range s.deck {
		st := s.cards[i]
		view := CardView{
			Position: card.Position,
			Flipped:  st.flipped,
			Matched:  st.matched,
		}
		if view.FaceUp() {
			stage := card.Stage
			view.UID = card.UID
			view.Stage = &stage
		}
		views[i] = view
	}

	snap := Snapshot{
		State:        s.state,
		Cards:        views,
		Moves:        s.moves,
		Matches:      s.matches,
		TotalPairs:   s.deck.PairCount(),
		Seconds:      s.seconds,
		Elapsed:      FormatElapsed(s.seconds),
		ClockRunning: s.clockRunning,
	}
	if s.notice != nil {
		n := *s.notice
		snap.Notice = &n
	}
	return snap
}

// record appends a change stamped with the current snapshot. It does
// nothing when the session has no listener.
func (s *Session) record(changes []Change, kind ChangeKind, uids ...string) []Change {
	if s.listener == nil {
		return changes
	}
	return append(changes, Change{
		Kind:     kind,
		CardUIDs: uids,
		Snapshot: s.snapshotLocked(),
	})
}

func (s *Session) dispatch(changes []Change) {
	if s.listener == nil {
		return
	}
	for _, c := range changes {
		s.listener(c)
	}
}
