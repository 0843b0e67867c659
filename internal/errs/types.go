package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NotFoundError signals a missing document or resource.
type NotFoundError struct {
	ErrorMessage
}

// AlreadyExistsError signals a create against an existing id.
type AlreadyExistsError struct {
	ErrorMessage
}

// ValidationError signals rejected input; Field names the offending
// configuration field when known so the client can surface it inline.
type ValidationError struct {
	ErrorMessage
	Field string
}

// AuthRequiredError signals a missing or unverifiable identity.
type AuthRequiredError struct {
	ErrorMessage
}

// PermissionError signals an authenticated caller lacking the required
// role. Kept distinct from AuthRequiredError so 401 and 403 never blur.
type PermissionError struct {
	ErrorMessage
}

// DatabaseError wraps a Firestore failure with the attempted operation.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Cause     error
}

func (e *DatabaseError) Unwrap() error { return e.Cause }

// ExternalServiceError wraps a failure from a remote collaborator
// (feature-service proxy, Brevo, Vertex). Transient marks timeouts and
// connectivity failures worth retrying.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Cause     error
}

func (e *ExternalServiceError) Unwrap() error { return e.Cause }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{ErrorMessage: ErrorMessage{Message: message}}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{ErrorMessage: ErrorMessage{Message: message}}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{ErrorMessage: ErrorMessage{Message: message}}
}

func NewFieldValidationError(field, message string) *ValidationError {
	return &ValidationError{ErrorMessage: ErrorMessage{Message: message}, Field: field}
}

func NewAuthRequiredError(message string) *AuthRequiredError {
	return &AuthRequiredError{ErrorMessage: ErrorMessage{Message: message}}
}

func NewPermissionError(message string) *PermissionError {
	return &PermissionError{ErrorMessage: ErrorMessage{Message: message}}
}

func NewDatabaseError(operation, message string, cause error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Cause:        cause,
	}
}

func NewExternalServiceError(service, message string, transient bool, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Cause:        cause,
	}
}
