package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidation          = "VALIDATION_ERROR"
	CodeLocationNotFound    = "LOCATION_NOT_FOUND"
	CodeRoutingUnavailable  = "ROUTING_UNAVAILABLE"
	CodeDistanceUnavailable = "DISTANCE_UNAVAILABLE"
	CodeTollProvider        = "TOLL_PROVIDER_ERROR"
	CodeInvalidDate         = "INVALID_DATE_INPUT"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeAssetNotFound       = "ASSET_NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeDatabase            = "DATABASE_ERROR"
	CodeQueue               = "QUEUE_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code       string // Machine-readable error code
	Message    string // Human-readable error message
	StatusCode int    // HTTP status code
	Err        error  // Underlying error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (underlying: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code, message string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether any AppError in err's chain carries code
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !stderrors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}

// ErrInvalidRequest creates an invalid request error
func ErrInvalidRequest(message string, err error) *AppError {
	return New(CodeInvalidRequest, message, http.StatusBadRequest, err)
}

// ErrValidation creates a validation error
func ErrValidation(field, reason string) *AppError {
	return New(CodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason), http.StatusBadRequest, nil)
}

// ErrLocationNotFound is returned when a place name cannot be geocoded
func ErrLocationNotFound(place string, err error) *AppError {
	return New(CodeLocationNotFound, fmt.Sprintf("Location '%s' not found", place), http.StatusBadRequest, err)
}

// ErrRoutingUnavailable is returned when neither the detailed nor the simple route call succeeded
func ErrRoutingUnavailable(err error) *AppError {
	return New(CodeRoutingUnavailable, "Routing service unavailable", http.StatusBadGateway, err)
}

// ErrDistanceUnavailable wraps a distance resolution failure during booking creation
func ErrDistanceUnavailable(err error) *AppError {
	return New(CodeDistanceUnavailable, "Unable to compute distance for provided locations", http.StatusBadRequest, err)
}

// ErrTollProvider wraps a failed toll integration call
func ErrTollProvider(message string, err error) *AppError {
	return New(CodeTollProvider, message, http.StatusBadGateway, err)
}

// ErrInvalidDate is recorded when a trip date does not parse as a calendar date
func ErrInvalidDate(value string) *AppError {
	return New(CodeInvalidDate, fmt.Sprintf("Trip date '%s' is not a valid YYYY-MM-DD date", value), http.StatusBadRequest, nil)
}

// ErrBookingNotFound creates a booking not found error
func ErrBookingNotFound(bookingID string) *AppError {
	return New(CodeBookingNotFound, fmt.Sprintf("Booking '%s' not found", bookingID), http.StatusNotFound, nil)
}

// ErrAssetNotFound creates a fleet asset not found error
func ErrAssetNotFound(kind, assetID string) *AppError {
	return New(CodeAssetNotFound, fmt.Sprintf("%s '%s' not found", kind, assetID), http.StatusNotFound, nil)
}

// ErrInvalidTransition is returned when a booking is not in the state an operation requires
func ErrInvalidTransition(bookingID, from, to string) *AppError {
	return New(CodeInvalidTransition,
		fmt.Sprintf("Booking '%s' cannot move from '%s' to '%s'", bookingID, from, to),
		http.StatusConflict, nil)
}

// ErrDatabaseOperation creates a database operation error
func ErrDatabaseOperation(operation string, err error) *AppError {
	return New(CodeDatabase, fmt.Sprintf("Database operation '%s' failed", operation), http.StatusInternalServerError, err)
}

// ErrQueueOperation creates a queue operation error
func ErrQueueOperation(operation string, err error) *AppError {
	return New(CodeQueue, fmt.Sprintf("Queue operation '%s' failed", operation), http.StatusInternalServerError, err)
}

// ErrRouteNotFound is returned for a path no route serves
func ErrRouteNotFound() *AppError {
	return New(CodeNotFound, "Endpoint not found", http.StatusNotFound, nil)
}

// ErrMethodNotAllowed is returned when the path exists but not for this method
func ErrMethodNotAllowed(method string) *AppError {
	return New(CodeMethodNotAllowed, fmt.Sprintf("Method %s not allowed", method), http.StatusMethodNotAllowed, nil)
}

// ErrInternalServer creates an internal server error
func ErrInternalServer(message string, err error) *AppError {
	return New(CodeInternal, message, http.StatusInternalServerError, err)
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details for API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToErrorResponse converts an AppError to an ErrorResponse
func ToErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    err.Code,
			Message: err.Message,
		},
	}
}

// Normalize converts any error into an AppError, treating unknown errors as internal
func Normalize(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}
	return ErrInternalServer("Internal server error", err)
}
