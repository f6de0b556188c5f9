package domain

import (
	"fmt"
	"net/http"
)

// Stable error codes. Callers branch on Code, never on Message.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeModeSwapCrossChain  = "MODE_SWAP_CROSS_CHAIN"
	CodeModeBridgeSameChain = "MODE_BRIDGE_SAME_CHAIN"
	CodeUnsupportedChain    = "UNSUPPORTED_CHAIN"
	CodeNoAdapter           = "NO_ADAPTER"
	CodeQuoteFailed         = "QUOTE_FAILED"
	CodeNoRouteFound        = "NO_ROUTE_FOUND"
	CodeNetworkError        = "NETWORK_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// RoutingError is a typed failure returned as a value, never as a panic
// across the adapter boundary.
type RoutingError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewRoutingError(code, message string) *RoutingError {
	return &RoutingError{Code: code, Message: message}
}

func (e *RoutingError) WithDetails(details string) *RoutingError {
	e.Details = details
	return e
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus maps the error taxonomy to a response status. Only resolver
// defects surface as 500; everything else is a client-visible 4xx/502.
func (e *RoutingError) HTTPStatus() int {
	switch e.Code {
	case CodeInternalError:
		return http.StatusInternalServerError
	case CodeNetworkError:
		return http.StatusBadGateway
	case CodeNoRouteFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
