// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data
// posted either as JSON or as form-encoded bodies.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"finboard/internal/core"
	"finboard/internal/notify"
)

// maxBodyBytes caps every request body the handlers read.
const maxBodyBytes = 1 << 20

// errBannerText is reported when a banner request carries no text.
var errBannerText = errors.New("banner text is required")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseBannerMessage reads a banner from a parsed body. "message" and "text"
// are both accepted for the banner text.
func ParseBannerMessage(p *RequestBodyParser) (notify.Message, error) {
	text := p.Get("message")
	if text == "" {
		text = p.Get("text")
	}
	if text == "" {
		return notify.Message{}, errBannerText
	}
	dismissible, _ := strconv.ParseBool(p.Get("dismissible"))
	return notify.Message{
		Text:        text,
		Category:    notify.ParseCategory(p.Get("category")),
		Autohide:    p.Get("autohide"),
		Dismissible: dismissible,
	}, nil
}

// DecodeDashboard reads a dashboard document. Numbers are kept as
// json.Number so the normalizer sees the exact literal.
func DecodeDashboard(w http.ResponseWriter, r *http.Request) (core.Dashboard, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var d core.Dashboard
	if err := dec.Decode(&d); err != nil {
		return core.Dashboard{}, err
	}
	return d, nil
}
