// Package errors defines error types shared across the toolwire server.
//
// This package provides sentinel errors for commonly checked conditions and
// structured error types for failures that carry context. All error types
// support error unwrapping and can be checked using errors.Is and errors.As.
package errors
