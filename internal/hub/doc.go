// Package hub tracks connected clients and routes their messages.
//
// The hub is transport-agnostic: anything that can push bytes to a peer
// satisfies Conn, so the websocket layer and tests plug in the same way.
// Each client walks a small state machine (connecting, open, closing,
// closed); only open clients receive broadcasts or may route messages.
//
// A failed send to one client unregisters that client and never blocks
// delivery to the others.
package hub
