// Package dto contains data transfer objects.
package dto

// APIResponse represents a standard API response wrapper.
type APIResponse[T any] struct {
	// Success indicates if the API call was successful.
	Success bool `json:"success"`

	// Data contains the payload of the response.
	Data T `json:"data,omitempty"`

	// Error contains error details if the API call was not successful.
	Error *APIError `json:"error,omitempty"`

	// Meta contains additional metadata about the response.
	Meta *ResponseMeta `json:"meta,omitempty"`
}

// WithRequestID attaches the request ID so clients can quote it in reports.
func (r APIResponse[T]) WithRequestID(id string) APIResponse[T] {
	if id == "" {
		return r
	}
	if r.Meta == nil {
		r.Meta = &ResponseMeta{}
	} else {
		meta := *r.Meta
		r.Meta = &meta
	}
	r.Meta.RequestID = id
	return r
}

// APIError represents error details in an API response.
type APIError struct {
	// Code is a stable, machine readable error code (e.g. PLAN_NOT_FOUND).
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// ValidationErrors contains field-level validation errors.
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// ValidationError represents a field validation error.
type ValidationError struct {
	// Field is the JSON path of the offending field, e.g. dataset.products[0].size.
	Field string `json:"field"`

	// Message names the rule that failed.
	Message string `json:"message"`
}

// ResponseMeta contains metadata about the response.
type ResponseMeta struct {
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse wraps a payload.
//
// Parameters:
//   - data: The response data
//
// Returns:
//   - APIResponse[T]: The success response wrapper
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates a new API error response.
//
// Parameters:
//   - code: The error code
//   - message: The error message
//
// Returns:
//   - APIResponse[T]: The error response wrapper
func NewErrorResponse[T any](code, message string) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}

// NewValidationErrorResponse creates a new API validation error response.
func NewValidationErrorResponse[T any](errors []ValidationError) APIResponse[T] {
	return APIResponse[T]{
		Success: false,
		Error: &APIError{
			Code:             "VALIDATION_ERROR",
			Message:          "Request validation failed",
			ValidationErrors: errors,
		},
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	// Status is "healthy" unless a dependency check failed.
	Status  string `json:"status"`
	Version string `json:"version"`

	// Uptime is how long the service has been running.
	Uptime string `json:"uptime"`

	// Checks holds one entry per dependency, e.g. "plan_store".
	Checks map[string]HealthCheckResult `json:"checks"`
}

// HealthCheckResult represents a single health check result.
type HealthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`

	// ResponseTime is the time taken to respond in milliseconds.
	ResponseTime int64 `json:"response_time_ms"`
}
