// Package client talks to the remote registration and form-schema endpoints.
//
// Failures are classified so sessions can surface the right message: a
// RejectedError means the service answered with a non-2xx status, a
// ConnectivityError means no response was received, and a SchemaError means
// the service answered but the form definition could not be used.
package client
