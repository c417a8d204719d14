package notify

import (
	"errors"
	"time"

	"finboard/internal/view"
)

// Scheduler runs single-shot callbacks. Callbacks are never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
	// NextFrame runs f on the next render tick.
	NextFrame(f func())
}

// FrameInterval approximates one display refresh.
const FrameInterval = 16 * time.Millisecond

type clockScheduler struct{}

// NewScheduler returns a Scheduler backed by time.AfterFunc.
func NewScheduler() Scheduler { return clockScheduler{} }

func (clockScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

func (clockScheduler) NextFrame(f func()) { time.AfterFunc(FrameInterval, f) }

// PreferredDismisser is a richer dismissal capability that, when bound to an
// element, owns its remaining animation and removal.
type PreferredDismisser interface {
	Bound(el *view.Element) bool
	Dismiss(el *view.Element) error
}

// ClassDismissible marks banners that the AlertCloser handles.
const ClassDismissible = "alert-dismissible"

// AlertCloser closes dismissible alerts the way a component framework would:
// it drops the show flag and detaches the element once its own fade has run.
type AlertCloser struct {
	Scheduler Scheduler
	Fade      time.Duration
}

// Bound reports whether el is a dismissible alert.
func (c *AlertCloser) Bound(el *view.Element) bool {
	return c != nil && c.Scheduler != nil && el != nil &&
		el.HasClass(ClassAlert) && el.HasClass(ClassDismissible)
}

// Dismiss starts the close sequence.
func (c *AlertCloser) Dismiss(el *view.Element) error {
	if !c.Bound(el) {
		return ErrNotBound
	}
	el.RemoveClass(ClassShow)
	fade := c.Fade
	if fade <= 0 {
		fade = 150 * time.Millisecond
	}
	c.Scheduler.AfterFunc(fade, func() { el.Detach() })
	return nil
}

// ErrNotBound is returned by Dismiss for elements the closer does not own.
var ErrNotBound = errors.New("notify: dismisser not bound to element")
