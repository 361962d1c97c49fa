// Package stdio adapts a byte pipe carrying newline-delimited JSON
// envelopes to the request router.
//
// One Transport serves one logical connection for the life of the process:
// requests are read line by line from the input stream, dispatched to a
// Handler on a bounded worker pool, and responses are written back one
// JSON object per line. Responses are written as requests complete, so a
// slow operation does not hold up the ones behind it. Notifications share
// the output stream and interleave between responses.
package stdio
