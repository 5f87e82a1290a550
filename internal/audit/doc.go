// Package audit relays gate decisions to a caller-supplied sink off the
// request path.
//
// [Dispatcher] buffers events in a channel drained by one goroutine. When
// DropIfFull is set a full buffer drops the event and bumps a counter instead
// of blocking the call being authenticated.
//
// This package does not decide which events exist; the gate does.
package audit
