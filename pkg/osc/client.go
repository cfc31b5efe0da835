// Package osc adapts the go-osc UDP transport to the avatar engine: an
// outbound message sender and a deadline-bounded packet receiver. Protocol
// framing and retransmission are this layer's concern, not the engine's.
package osc

import (
	"fmt"

	goosc "github.com/hypebeast/go-osc/osc"
)

// Client sends OSC messages to a single remote endpoint. It implements
// avatar.Sender.
type Client struct {
	host string
	port int
	c    *goosc.Client
}

// NewClient creates a client for the given remote endpoint.
func NewClient(host string, port int) *Client {
	return &Client{
		host: host,
		port: port,
		c:    goosc.NewClient(host, port),
	}
}

// Send builds and transmits one OSC message. Arguments must be OSC-encodable
// (int32, float32, bool, string and friends); the engine's typed setters
// take care of that.
func (c *Client) Send(address string, args ...any) error {
	msg := goosc.NewMessage(address)
	for _, a := range args {
		msg.Append(a)
	}
	if err := c.c.Send(msg); err != nil {
		return fmt.Errorf("send %s to %s:%d: %w", address, c.host, c.port, err)
	}
	return nil
}
