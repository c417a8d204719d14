// Package http serves the dashboard page, its HTMX partials and the chart
// exports.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// Event names sent through HX-Trigger.
const (
	EventBannerPosted      = "banner:posted"
	EventThemeChanged      = "theme:changed"
	EventDashboardReplaced = "dashboard:replaced"
)

// HTMXResponseBuilder assembles a response for an HTMX request: status,
// HX-* headers and an HTML or text body.
type HTMXResponseBuilder struct {
	status   int
	header   http.Header
	events   map[string]any
	body     []byte
	bodyType string
}

// NewHTMXResponse starts a 200 response with no body.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		status: http.StatusOK,
		header: make(http.Header),
		events: make(map[string]any),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.status = code
	return b
}

// Trigger queues a client event. A nil detail is sent as null.
func (b *HTMXResponseBuilder) Trigger(event string, detail any) *HTMXResponseBuilder {
	b.events[event] = detail
	return b
}

func (b *HTMXResponseBuilder) TriggerBannerPosted(id, category string) *HTMXResponseBuilder {
	return b.Trigger(EventBannerPosted, map[string]string{"id": id, "category": category})
}

func (b *HTMXResponseBuilder) TriggerThemeChanged(theme string) *HTMXResponseBuilder {
	return b.Trigger(EventThemeChanged, map[string]string{"theme": theme})
}

func (b *HTMXResponseBuilder) TriggerDashboardReplaced() *HTMXResponseBuilder {
	return b.Trigger(EventDashboardReplaced, nil)
}

// Refresh makes HTMX reload the page; used after a theme change since the
// theme class sits on <body>, outside any swap target.
func (b *HTMXResponseBuilder) Refresh() *HTMXResponseBuilder {
	return b.Header("HX-Refresh", "true")
}

// Retarget swaps the body into selector instead of the requesting element.
func (b *HTMXResponseBuilder) Retarget(selector string) *HTMXResponseBuilder {
	return b.Header("HX-Retarget", selector)
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.header.Set(name, value)
	return b
}

// HTML sets an HTML fragment body.
func (b *HTMXResponseBuilder) HTML(fragment []byte) *HTMXResponseBuilder {
	b.body = fragment
	b.bodyType = "text/html; charset=utf-8"
	return b
}

// Text sets a plain text body.
func (b *HTMXResponseBuilder) Text(s string) *HTMXResponseBuilder {
	b.body = []byte(s)
	b.bodyType = "text/plain; charset=utf-8"
	return b
}

// Write flushes headers, status and body to w.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	h := w.Header()
	for name, values := range b.header {
		h[name] = values
	}
	if b.bodyType != "" {
		h.Set("Content-Type", b.bodyType)
	}
	if trigger := b.triggerHeader(); trigger != "" {
		h.Set("HX-Trigger", trigger)
	}
	w.WriteHeader(b.status)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// triggerHeader uses the bare event name when a single event carries no
// detail, which keeps hx-trigger="dashboard:replaced from:body" listeners
// simple.
func (b *HTMXResponseBuilder) triggerHeader() string {
	switch len(b.events) {
	case 0:
		return ""
	case 1:
		for name, detail := range b.events {
			if detail == nil {
				return name
			}
		}
	}
	raw, err := json.Marshal(b.events)
	if err != nil {
		return ""
	}
	return string(raw)
}

// ErrorResponse renders message as a danger alert, escaped.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		HTML([]byte(`<div class="alert alert-danger" role="alert">` + template.HTMLEscapeString(message) + `</div>`))
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}
