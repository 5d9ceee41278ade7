package shared

import "errors"

var (
	// ErrNotFound indicates the referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// API error codes returned in the response envelope. The codes match the
// contract consumed by the back-office front end.
const (
	CodeMissingFields     = "MISSING_FIELDS"
	CodeInvalidID         = "INVALID_ID"
	CodeInvalidData       = "INVALID_DATA"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeNotLoggedIn       = "NOT_LOGGED_IN"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeShipmentNotFound  = "SHIPMENT_NOT_FOUND"
	CodeQuotationNotFound = "QUOTATION_NOT_FOUND"
	CodeDuplicateCustomer = "DUPLICATE_CUSTOMER_CODE"
	CodeActionRequired    = "ACTION_REQUIRED"
	CodeNameRequired      = "NAME_REQUIRED"
	CodeDBError           = "DB_ERROR"
	CodeServerError       = "SERVER_ERROR"
	CodeLogoutFailed      = "LOGOUT_FAILED"
)
