package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSlot       = "slot"
	FieldChartType  = "chart_type"
	FieldPoints     = "points"
	FieldBannerID   = "banner_id"
	FieldDelayMs    = "delay_ms"
	FieldCategory   = "category"
	FieldTheme      = "theme"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentChart     = "chart"
	ComponentNotify    = "notify"
	ComponentPrefs     = "prefs"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentSource    = "source"
	ComponentCache     = "cache"
	ComponentSnapshot  = "snapshot"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpRender   = "render"
	OpDispose  = "dispose"
	OpDismiss  = "dismiss"
	OpDetach   = "detach"
	OpToggle   = "toggle"
	OpRead     = "read"
	OpReplace  = "replace"
	OpExport   = "export"
	OpConsume  = "consume"
	OpPublish  = "publish"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithChart adds the slot and chart type of a render.
func (f LogFields) WithChart(slot, chartType string, points int) LogFields {
	f[FieldSlot] = slot
	f[FieldChartType] = chartType
	f[FieldPoints] = points
	return f
}

// WithBanner adds banner identity and schedule.
func (f LogFields) WithBanner(id string, delayMs int64) LogFields {
	f[FieldBannerID] = id
	f[FieldDelayMs] = delayMs
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
