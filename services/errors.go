package services

// Error taxonomy shared by the order and catalog services. Controllers
// translate these to HTTP statuses: ValidationError 400, NotFoundError 404,
// PermissionError 403, UpstreamError 500.

// ValidationError represents malformed or inconsistent input
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given code and message
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// NotFoundError represents a referenced record that does not exist
type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError creates a NotFoundError with the given code and message
func NewNotFoundError(code, message string) *NotFoundError {
	return &NotFoundError{Code: code, Message: message}
}

// PermissionError represents a caller lacking the role or ownership
// required for an action
type PermissionError struct {
	Code    string
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// NewPermissionError creates a PermissionError with the given code and message
func NewPermissionError(code, message string) *PermissionError {
	return &PermissionError{Code: code, Message: message}
}

// UpstreamError represents a failure in an external collaborator such as
// blob storage
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// NewUpstreamError creates an UpstreamError with the given code and message
func NewUpstreamError(code, message string) *UpstreamError {
	return &UpstreamError{Code: code, Message: message}
}
