// Package event carries registry change records to subscribers.
//
// The Bus is a plain in-process callback list: delivery is synchronous, in
// subscription order, with no queuing and no persistence. A panicking
// handler is isolated so it neither stops delivery to later handlers nor
// propagates to the publisher. The bus is always an explicitly constructed,
// injected dependency, never a process-wide singleton.
package event
