// Package wire defines the envelope types exchanged over a transport.
//
// The wire format is JSON-RPC shaped but carries no version field: a request
// is {id, method, params?}, a response is {id, result?} or {id, error},
// and a notification is {method, params} with no id. Correlation ids are
// caller-supplied strings or numbers and are echoed back verbatim, which is
// why they are held as raw JSON rather than decoded values.
package wire
