package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized          = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInvalidState          = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrNoMatchingRule        = NewDomainError("NO_MATCHING_RULE", "No price available for this combination")
	ErrIncompleteSelection   = NewDomainError("INCOMPLETE_SELECTION", "Selection is missing required dimensions")
	ErrIncompatibleSelection = NewDomainError("INCOMPATIBLE_SELECTION", "Selected options are not allowed together")
	ErrInvalidRuleSet        = NewDomainError("INVALID_RULESET", "Pricing rule list violates catalog invariants")
	ErrStagingCorrupt        = NewDomainError("STAGING_CORRUPT", "Staged cart operation failed its completeness schema")
	ErrCartAppendFailed      = NewDomainError("CART_APPEND_FAILED", "Cart service rejected the append call")
)
