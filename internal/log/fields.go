package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldQuery        = "query"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldUserID       = "user_id"
	FieldUsername     = "username"
	FieldInvoiceID    = "invoice_id"
	FieldEmployeeName = "employee_name"
	FieldAmountCents  = "amount_cents"
	FieldSource       = "source"
	FieldRowCount     = "row_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentPayroll = "payroll"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSource  = "source"
	ComponentAuth    = "auth"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpReconcile = "reconcile"
	OpBuild     = "build"
	OpFilter    = "filter"
	OpAggregate = "aggregate"
	OpLogin     = "login"
	OpSync      = "sync"
	OpParse     = "parse"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// LogFields provides a builder for structured log fields.
type LogFields map[string]any

// NewFields creates a new LogFields instance.
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds a component field.
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithOperation adds an operation field.
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds an error field when err is non-nil.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithUser adds user identity fields.
func (f LogFields) WithUser(id int64, username string) LogFields {
	f[FieldUserID] = id
	f[FieldUsername] = username
	return f
}

// WithHTTPRequest adds HTTP request fields.
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields.
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
