package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidID        = "INVALID_ID"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidPrice     = "INVALID_PRICE"
	ErrCodeInvalidStock     = "INVALID_STOCK"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInvalidTotal     = "INVALID_TOTAL"
	ErrCodeEmptyOrder       = "EMPTY_ORDER"
	ErrCodeUnknownProduct   = "UNKNOWN_PRODUCT"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrMissingName      = NewDomainError(ErrCodeMissingField, "Product name is required")
	ErrInvalidPrice     = NewDomainError(ErrCodeInvalidPrice, "Price must not be negative")
	ErrInvalidStock     = NewDomainError(ErrCodeInvalidStock, "Stock must be between 0 and 2147483647")
	ErrEmptyOrder       = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrMissingProductID = NewDomainError(ErrCodeMissingField, "Every item needs a product ID")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be between 1 and 2147483647")
	ErrInvalidTotal     = NewDomainError(ErrCodeInvalidTotal, "Total amount must not be negative")
	ErrUnknownProduct   = NewDomainError(ErrCodeUnknownProduct, "One or more products not found")
	ErrInvalidStatus    = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrStatusTransition = NewDomainError(ErrCodeStatusTransition, "Order cannot move to the requested status")
	ErrInvalidID        = NewDomainError(ErrCodeInvalidID, "Malformed identifier")
)
