// Package notify drives transient notification banners: each banner counts
// down its delay and then leaves the page in two phases, a fade followed by
// a delayed detach from the document.
package notify

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"finboard/internal/view"
)

// State is the lifecycle position of a banner.
type State int

const (
	Visible State = iota
	Dismissing
	Removed
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Dismissing:
		return "dismissing"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	// DelayAttr declares a per-banner delay in milliseconds.
	DelayAttr = "data-autohide"
	// IDAttr carries the banner id on the element.
	IDAttr = "data-banner-id"

	ClassAlert = "alert"
	ClassShow  = "show"
)

// Timings controls the countdown and the fallback removal animation.
type Timings struct {
	DefaultDelay time.Duration
	Fade         time.Duration
	Collapse     time.Duration
	RemoveAfter  time.Duration
}

// DefaultTimings returns 4000ms delay, 180ms fade, 220ms collapse and a
// 260ms removal grace.
func DefaultTimings() Timings {
	return Timings{
		DefaultDelay: 4000 * time.Millisecond,
		Fade:         180 * time.Millisecond,
		Collapse:     220 * time.Millisecond,
		RemoveAfter:  260 * time.Millisecond,
	}
}

func (t Timings) withDefaults() Timings {
	d := DefaultTimings()
	if t.DefaultDelay <= 0 {
		t.DefaultDelay = d.DefaultDelay
	}
	if t.Fade <= 0 {
		t.Fade = d.Fade
	}
	if t.Collapse <= 0 {
		t.Collapse = d.Collapse
	}
	if t.RemoveAfter <= 0 {
		t.RemoveAfter = d.RemoveAfter
	}
	return t
}

// Transition is the CSS transition applied by the fallback path.
func (t Timings) Transition() string {
	return fmt.Sprintf("opacity %dms ease, max-height %dms ease, margin %dms ease, padding %dms ease",
		t.Fade.Milliseconds(), t.Collapse.Milliseconds(), t.Collapse.Milliseconds(), t.Collapse.Milliseconds())
}

// maxDelayMs is the longest delay a time.Duration can hold, in ms.
const maxDelayMs = math.MaxInt64 / int64(time.Millisecond)

// ParseDelay interprets a declared delay attribute. An absent or empty
// value yields def. Otherwise the leading decimal digits are read as
// milliseconds, clamped to the longest representable delay; a value
// without digits, or one that is not positive, opts the banner out of
// scheduling and ok is false.
func ParseDelay(value string, present bool, def time.Duration) (delay time.Duration, ok bool) {
	if !present || value == "" {
		return def, true
	}
	s := strings.TrimLeft(value, " \t\n\r\f\v")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var ms int64
	digits := 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		ms = ms*10 + int64(s[digits]-'0')
		if ms > maxDelayMs {
			ms = maxDelayMs
		}
	}
	if digits == 0 || neg || ms <= 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// Banner is one armed notification element.
type Banner struct {
	ID    string
	Delay time.Duration

	el        *view.Element
	scheduled bool

	mu    sync.Mutex
	state State
}

// Element returns the underlying view element.
func (b *Banner) Element() *view.Element { return b.el }

// Scheduled reports whether a countdown was started for the banner.
func (b *Banner) Scheduled() bool { return b.scheduled }

// State returns the current state. A banner whose element is no longer in
// the document is Removed regardless of how it got there.
func (b *Banner) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Removed && !b.el.Attached() {
		b.state = Removed
	}
	return b.state
}

// advance moves forward to s; transitions never go backwards.
func (b *Banner) advance(s State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s <= b.state {
		return false
	}
	b.state = s
	return true
}

// Detach removes the banner element from the document. Detaching an
// already removed banner is a no-op.
func (b *Banner) Detach() bool {
	detached := b.el.Detach()
	b.advance(Removed)
	return detached
}
