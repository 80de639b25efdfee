// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error categories for bridge operations.
type ErrorCode int

const (
	// ErrGeneral is the catch-all kind reported by the engine.
	ErrGeneral ErrorCode = iota
	// ErrNotInitialized indicates Connect was called before Init.
	ErrNotInitialized
	// ErrValidation indicates a mandatory connection field is missing or malformed.
	ErrValidation
	// ErrNegotiationFailure indicates protocol negotiation with the server failed.
	ErrNegotiationFailure
	// ErrWrongPassword indicates the server rejected the password.
	ErrWrongPassword
	// ErrLogonFailure indicates the server refused the logon.
	ErrLogonFailure
	// ErrAccessDenied indicates the server denied access.
	ErrAccessDenied
	// ErrRelayProtocol indicates a failure exchanging the relay handshake with the proxy.
	ErrRelayProtocol
	// ErrProxyConnect indicates the proxy could not be reached.
	ErrProxyConnect
	// ErrState indicates the operation is not valid in the controller's current state.
	ErrState
)

// String returns the string representation of the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrGeneral:
		return "general"
	case ErrNotInitialized:
		return "not initialized"
	case ErrValidation:
		return "validation"
	case ErrNegotiationFailure:
		return "negotiation failure"
	case ErrWrongPassword:
		return "wrong password"
	case ErrLogonFailure:
		return "logon failure"
	case ErrAccessDenied:
		return "access denied"
	case ErrRelayProtocol:
		return "relay protocol"
	case ErrProxyConnect:
		return "proxy connect"
	case ErrState:
		return "state"
	default:
		return "unknown"
	}
}

// BridgeError provides structured error information for failures raised by the
// bridge itself, as opposed to failures reported by the engine.
type BridgeError struct {
	Op      string
	Code    ErrorCode
	Message string
	Err     error
}

// Error returns the formatted error message.
func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rdpbridge %s: %s: %s: %v", e.Code.String(), e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("rdpbridge %s: %s: %s", e.Code.String(), e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain unwrapping.
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target error.
func (e *BridgeError) Is(target error) bool {
	var bridgeErr *BridgeError
	if errors.As(target, &bridgeErr) {
		return e.Code == bridgeErr.Code && e.Op == bridgeErr.Op
	}
	return false
}

// NewBridgeError creates a new BridgeError with the specified parameters.
func NewBridgeError(op string, code ErrorCode, message string, err error) *BridgeError {
	return &BridgeError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapError wraps an existing error with bridge-specific context.
// Returns nil if the input error is nil.
func WrapError(op string, code ErrorCode, message string, err error) error {
	if err == nil {
		return nil
	}
	return &BridgeError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// EngineErrorKind is the error-kind enumeration exposed by the session engine.
// The numeric values follow the engine's own enumeration.
type EngineErrorKind int

const (
	// EngineGeneral is the engine's catch-all error kind.
	EngineGeneral EngineErrorKind = iota
	// EngineWrongPassword reports an incorrect password.
	EngineWrongPassword
	// EngineLogonFailure reports that logging on to the machine failed.
	EngineLogonFailure
	// EngineAccessDenied reports insufficient permissions.
	EngineAccessDenied
	// EngineRelayProtocolError reports a failure sending or receiving the relay handshake.
	EngineRelayProtocolError
	// EngineProxyConnectFailure reports that the proxy could not be reached.
	EngineProxyConnectFailure
	// EngineNegotiationFailure reports a protocol negotiation failure.
	EngineNegotiationFailure
)

// String returns the engine's name for the kind.
func (k EngineErrorKind) String() string {
	switch k {
	case EngineGeneral:
		return "General"
	case EngineWrongPassword:
		return "WrongPassword"
	case EngineLogonFailure:
		return "LogonFailure"
	case EngineAccessDenied:
		return "AccessDenied"
	case EngineRelayProtocolError:
		return "RelayProtocolError"
	case EngineProxyConnectFailure:
		return "ProxyConnectFailure"
	case EngineNegotiationFailure:
		return "NegotiationFailure"
	default:
		return "Unknown"
	}
}

// Code maps the engine kind onto the bridge error taxonomy.
func (k EngineErrorKind) Code() ErrorCode {
	switch k {
	case EngineWrongPassword:
		return ErrWrongPassword
	case EngineLogonFailure:
		return ErrLogonFailure
	case EngineAccessDenied:
		return ErrAccessDenied
	case EngineRelayProtocolError:
		return ErrRelayProtocol
	case EngineProxyConnectFailure:
		return ErrProxyConnect
	case EngineNegotiationFailure:
		return ErrNegotiationFailure
	default:
		return ErrGeneral
	}
}

// EngineError is the value engines return when negotiation or the session
// run-loop fails. The controller hands it back to the caller unchanged.
type EngineError struct {
	Kind       EngineErrorKind
	Diagnostic string
	Backtrace  string
}

// Error returns the formatted error message.
func (e *EngineError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("engine %s", e.Kind)
	}
	return fmt.Sprintf("engine %s: %s", e.Kind, e.Diagnostic)
}

// NewEngineError creates a new EngineError of the given kind.
func NewEngineError(kind EngineErrorKind, diagnostic string) *EngineError {
	return &EngineError{Kind: kind, Diagnostic: diagnostic}
}

// IsBridgeError checks if an error carries a bridge error code and optionally
// matches specific codes. Engine errors are matched through their mapped code.
// If no codes are provided, returns true for any BridgeError or EngineError.
func IsBridgeError(err error, code ...ErrorCode) bool {
	got, ok := errorCode(err)
	if !ok {
		return false
	}

	if len(code) == 0 {
		return true
	}

	for _, c := range code {
		if got == c {
			return true
		}
	}
	return false
}

// GetErrorCode extracts the error code from a BridgeError or EngineError.
// Returns -1 for any other error.
func GetErrorCode(err error) ErrorCode {
	if code, ok := errorCode(err); ok {
		return code
	}
	return ErrorCode(-1)
}

func errorCode(err error) (ErrorCode, bool) {
	var bridgeErr *BridgeError
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Code, true
	}
	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Kind.Code(), true
	}
	return 0, false
}

// notInitializedError creates a new not-initialized error.
func notInitializedError(op, message string) error {
	return NewBridgeError(op, ErrNotInitialized, message, nil)
}

// validationError creates a new validation error.
func validationError(op, message string, err error) error {
	return NewBridgeError(op, ErrValidation, message, err)
}

// stateError creates a new state error.
func stateError(op, message string) error {
	return NewBridgeError(op, ErrState, message, nil)
}
