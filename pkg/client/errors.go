package client

import (
	"errors"
	"fmt"
)

// Operation names a remote call.
type Operation string

const (
	OpRegister  Operation = "register"
	OpFetchForm Operation = "fetch_form"
)

const (
	defaultRegistrationRejected = "Registration failed"
	defaultFetchRejected        = "Failed to fetch form data."
	registrationUnreachable     = "Failed to connect to the registration service."
	fetchUnreachable            = "Failed to connect to the form data service."
	invalidFormDefinition       = "Received an invalid form definition."
)

func (op Operation) rejectedMessage() string {
	if op == OpRegister {
		return defaultRegistrationRejected
	}
	return defaultFetchRejected
}

func (op Operation) unreachableMessage() string {
	if op == OpRegister {
		return registrationUnreachable
	}
	return fetchUnreachable
}

// RejectedError reports a non-2xx response. Message holds the server
// supplied message, or the operation default when the body had none.
type RejectedError struct {
	Op         Operation
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("client: %s rejected (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// ConnectivityError reports a transport-level failure: no response arrived.
type ConnectivityError struct {
	Op  Operation
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// SchemaError reports a 2xx form response whose payload was unusable.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("client: invalid form definition: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsRejected reports whether err is a RejectedError.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// IsConnectivity reports whether err is a ConnectivityError.
func IsConnectivity(err error) bool {
	var conn *ConnectivityError
	return errors.As(err, &conn)
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		rejected *RejectedError
		conn     *ConnectivityError
		invalid  *SchemaError
	)
	switch {
	case errors.As(err, &rejected):
		if rejected.Message != "" {
			return rejected.Message
		}
		return rejected.Op.rejectedMessage()
	case errors.As(err, &conn):
		return conn.Op.unreachableMessage()
	case errors.As(err, &invalid):
		return invalidFormDefinition
	default:
		return err.Error()
	}
}
