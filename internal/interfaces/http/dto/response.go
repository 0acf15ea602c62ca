package dto

import "net/http"

// Error codes surfaced by the API
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNoMatchingRule   = "NO_MATCHING_RULE"
	ErrCodeIncomplete       = "INCOMPLETE_SELECTION"
	ErrCodeIncompatible     = "INCOMPATIBLE_SELECTION"
	ErrCodeInvalidRate      = "INVALID_RATE"
	ErrCodeStagingCorrupt   = "STAGING_CORRUPT"
	ErrCodeCartAppendFailed = "CART_APPEND_FAILED"
)

// Response is the standard success envelope
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success envelope
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error envelope
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message, RequestID: requestID},
	}
}

// GetHTTPStatus maps an error code to an HTTP status code
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeNoMatchingRule, ErrCodeIncompatible:
		return http.StatusUnprocessableEntity
	case ErrCodeIncomplete, ErrCodeBadRequest, ErrCodeInvalidRate:
		return http.StatusBadRequest
	case ErrCodeStagingCorrupt, ErrCodeCartAppendFailed:
		return http.StatusBadGateway
	case ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
