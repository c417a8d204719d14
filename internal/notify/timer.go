package notify

import (
	"github.com/google/uuid"

	"finboard/internal/log"
	"finboard/internal/view"
)

// Timer arms banners and runs their dismissal sequence.
type Timer struct {
	sched     Scheduler
	preferred PreferredDismisser
	timings   Timings
	logger    *log.Logger
}

// NewTimer builds a Timer. preferred may be nil; zero timings take their
// defaults.
func NewTimer(sched Scheduler, preferred PreferredDismisser, timings Timings, logger *log.Logger) *Timer {
	if sched == nil {
		sched = NewScheduler()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Timer{
		sched:     sched,
		preferred: preferred,
		timings:   timings.withDefaults(),
		logger:    logger.WithComponent(log.ComponentNotify),
	}
}

// Timings returns the effective timings.
func (t *Timer) Timings() Timings { return t.timings }

// Arm creates a Visible banner for el and, unless its declared delay opts
// out, schedules the dismissal.
func (t *Timer) Arm(el *view.Element) *Banner {
	id, ok := el.Attr(IDAttr)
	if !ok || id == "" {
		if id = el.ID(); id == "" {
			id = uuid.NewString()
		}
		el.SetAttr(IDAttr, id)
	}

	raw, present := el.Attr(DelayAttr)
	delay, scheduled := ParseDelay(raw, present, t.timings.DefaultDelay)
	b := &Banner{ID: id, Delay: delay, el: el, scheduled: scheduled, state: Visible}
	if !scheduled {
		t.logger.Debug("Banner opted out of auto dismiss", log.FieldBannerID, id, "declared", raw)
		return b
	}

	t.sched.AfterFunc(delay, func() { t.expire(b) })
	t.logger.Debug("Banner armed", log.FieldBannerID, id, log.FieldDelayMs, delay.Milliseconds())
	return b
}

func (t *Timer) expire(b *Banner) {
	if b.State() != Visible || !b.advance(Dismissing) {
		return
	}
	fields := log.NewFields().WithOperation(log.OpDismiss).WithBanner(b.ID, b.Delay.Milliseconds())

	if t.preferred != nil && t.preferred.Bound(b.el) {
		err := t.preferred.Dismiss(b.el)
		if err == nil {
			t.logger.Debug("Banner handed to preferred dismisser", fields.ToSlice()...)
			return
		}
		t.logger.Debug("Preferred dismisser failed, fading manually", fields.WithError(err).ToSlice()...)
	}
	t.fallback(b)
}

// fallback fades the element out and detaches it after RemoveAfter.
func (t *Timer) fallback(b *Banner) {
	el := b.el
	el.RemoveClass(ClassShow)
	el.SetStyles(
		"transition", t.timings.Transition(),
		"overflow", "hidden",
	)
	t.sched.NextFrame(func() {
		el.SetStyles(
			"opacity", "0",
			"max-height", "0",
			"margin-top", "0",
			"margin-bottom", "0",
			"padding-top", "0",
			"padding-bottom", "0",
		)
	})
	t.sched.AfterFunc(t.timings.RemoveAfter, func() {
		b.Detach()
		t.logger.Debug("Banner removed", log.FieldBannerID, b.ID, log.FieldOperation, log.OpDetach)
	})
}
