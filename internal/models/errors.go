package models

import "errors"

// ErrorKind classifies a DomainError so the HTTP layer can pick a status code.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
)

// DomainError is a failure the caller caused and can act on.
// Any other error reaching the HTTP layer is treated as a storage failure.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying per-field messages.
func NewValidationError(message string, fields map[string]string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
	}
}

// AsDomainError unwraps err into a DomainError if it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Messages shared between the services and their tests.
const (
	MsgStockNegative          = "Stock cannot be negative"
	MsgProductNotFound        = "Product not found"
	MsgCartItemNotFound       = "Cart item not found"
	MsgQuantityNotInteger     = "Quantity must be an integer."
	MsgQuantityNotPositive    = "Quantity must be greater than zero."
	MsgQuantityExceedsStock   = "Requested quantity exceeds available stock."
	MsgTotalExceedsStock      = "Total quantity exceeds available stock."
	MsgAuthenticationRequired = "Authentication credentials were not provided."
	MsgPermissionDenied       = "You do not have permission to perform this action."
)
