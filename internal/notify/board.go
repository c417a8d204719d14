package notify

import (
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"finboard/internal/log"
	"finboard/internal/view"
)

// Category selects the banner styling.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryInfo    Category = "info"
	CategoryWarning Category = "warning"
	CategoryDanger  Category = "danger"
)

// ParseCategory maps s onto a known category, defaulting to info.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategorySuccess, CategoryInfo, CategoryWarning, CategoryDanger:
		return c
	case "error":
		return CategoryDanger
	default:
		return CategoryInfo
	}
}

// Message is a banner request coming from an HTTP action or the broker.
type Message struct {
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text"`
	Category Category `json:"category,omitempty"`
	// Autohide is written verbatim to the delay attribute. Empty keeps the
	// default delay, "0" keeps the banner until removed by other means.
	Autohide    string `json:"autohide,omitempty"`
	Dismissible bool   `json:"dismissible,omitempty"`
}

// ContainerID is the id of the element banners are appended to.
const ContainerID = "banners"

// Board owns a document holding the live banners.
type Board struct {
	doc       *view.Document
	container *view.Element
	timer     *Timer
	logger    *log.Logger

	mu      sync.Mutex
	banners []*Banner
	armed   map[string]struct{}
}

// NewBoard returns a Board over a fresh document.
func NewBoard(timer *Timer, logger *log.Logger) *Board {
	doc := view.New()
	container := doc.Body().Append("div",
		view.Attr("id", ContainerID),
		view.Attr("class", "banner-stack"),
	)
	return newBoard(doc, container, timer, logger)
}

// NewBoardFromDocument adopts an existing document. Banners are appended to
// the ContainerID element, or to the body when there is none.
func NewBoardFromDocument(doc *view.Document, timer *Timer, logger *log.Logger) *Board {
	container, ok := doc.ResolveSlot(ContainerID)
	if !ok {
		container = doc.Body()
	}
	return newBoard(doc, container, timer, logger)
}

func newBoard(doc *view.Document, container *view.Element, timer *Timer, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Discard()
	}
	if timer == nil {
		timer = NewTimer(nil, nil, DefaultTimings(), logger)
	}
	return &Board{
		doc:       doc,
		container: container,
		timer:     timer,
		logger:    logger.WithComponent(log.ComponentNotify),
		armed:     make(map[string]struct{}),
	}
}

// Document returns the board document.
func (b *Board) Document() *view.Document { return b.doc }

// Scan arms every alert element in the document that is not armed yet.
func (b *Board) Scan() []*Banner {
	var out []*Banner
	for _, el := range b.doc.ByClass(ClassAlert) {
		if id, ok := el.Attr(IDAttr); ok {
			b.mu.Lock()
			_, seen := b.armed[id]
			b.mu.Unlock()
			if seen {
				continue
			}
		}
		out = append(out, b.track(b.timer.Arm(el)))
	}
	return out
}

// Post appends a banner for m and arms it.
func (b *Board) Post(m Message) *Banner {
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	category := ParseCategory(string(m.Category))
	class := "alert alert-" + string(category)
	if m.Dismissible {
		class += " " + ClassDismissible
	}
	class += " fade " + ClassShow

	attrs := []html.Attribute{
		view.Attr("class", class),
		view.Attr("role", "alert"),
		view.Attr(IDAttr, id),
	}
	if m.Autohide != "" {
		attrs = append(attrs, view.Attr(DelayAttr, m.Autohide))
	}
	el := b.container.Append("div", attrs...)
	el.SetText(m.Text)

	banner := b.track(b.timer.Arm(el))
	b.logger.Info("Banner posted",
		log.FieldBannerID, id,
		log.FieldCategory, string(category),
		log.FieldDelayMs, banner.Delay.Milliseconds(),
	)
	return banner
}

func (b *Board) track(banner *Banner) *Banner {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.armed[banner.ID] = struct{}{}
	b.banners = append(b.banners, banner)
	return banner
}

// Active returns banners that have not been removed, dropping removed ones
// from the board's bookkeeping.
func (b *Board) Active() []*Banner {
	b.mu.Lock()
	defer b.mu.Unlock()
	live := b.banners[:0]
	for _, banner := range b.banners {
		if banner.State() == Removed {
			delete(b.armed, banner.ID)
			continue
		}
		live = append(live, banner)
	}
	for i := len(live); i < len(b.banners); i++ {
		b.banners[i] = nil
	}
	b.banners = live
	return append([]*Banner(nil), live...)
}

// Render writes the banner container markup.
func (b *Board) Render(w io.Writer) error {
	return b.doc.RenderElement(w, b.container)
}
