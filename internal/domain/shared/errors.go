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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	// Reconciliation-specific errors. These are business-rule rejections that are
	// expected under concurrent or operator-error conditions; callers surface them
	// to the operator instead of retrying.
	ErrInvalidAmount   = NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrInvalidRate     = NewDomainError("INVALID_RATE", "Rate percentage cannot be negative")
	ErrOverpayment     = NewDomainError("OVERPAYMENT", "Requested amount exceeds outstanding due")
	ErrOverRefund      = NewDomainError("OVER_REFUND", "Cumulative refunded amount would exceed the original line total")
	ErrAlreadyRefunded = NewDomainError("ALREADY_REFUNDED", "Order line has already been fully refunded")

	// ErrUnbalancedEntry indicates a journal entry whose debit and credit totals
	// differ. This is always a programming bug, never an expected runtime condition.
	ErrUnbalancedEntry = NewDomainError("UNBALANCED_ENTRY", "Journal entry debits do not equal credits")

	// ErrPersistenceFailure wraps a failed transactional write. The caller must
	// treat the whole operation as not applied.
	ErrPersistenceFailure = NewDomainError("PERSISTENCE_FAILURE", "Transactional write failed; operation was not applied")
)
