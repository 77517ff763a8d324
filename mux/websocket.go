package mux

import (
	"errors"

	"github.com/vitalvas/switchyard/websocket"
)

// ErrResponseCommitted is returned when an operation needs a response that
// has not been flushed yet.
var ErrResponseCommitted = errors.New("mux: response already committed")

// UpgradeWebSocket upgrades the request to a websocket connection of the
// endpoint with the given identifier. The router stops managing the
// response afterwards, even when the handshake failed.
func (c *Context) UpgradeWebSocket(endpointID string) (*websocket.Peer, error) {
	if c.res.committed {
		return nil, ErrResponseCommitted
	}

	m, err := c.router.sockets.Manager(endpointID)
	if err != nil {
		return nil, err
	}

	c.res.hijacked = true
	return m.Accept(c.res.w, c.request)
}
