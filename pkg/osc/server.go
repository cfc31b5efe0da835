package osc

import (
	"errors"
	"fmt"
	"net"
	"time"

	goosc "github.com/hypebeast/go-osc/osc"

	"github.com/osckit/go-avatar/pkg/avatar"
)

// Server receives OSC packets over UDP. It implements avatar.Receiver: each
// Receive blocks for at most maxWait, returning nil on timeout so the
// engine's tick still occurs.
type Server struct {
	conn net.PacketConn
	srv  *goosc.Server

	// pending holds messages unpacked from a bundle, drained one per
	// Receive so the engine sees a flat message stream.
	pending []*avatar.Packet
}

// Listen binds a UDP socket on addr (host:port).
func Listen(addr string) (*Server, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Server{
		conn: conn,
		srv:  &goosc.Server{},
	}, nil
}

// Receive returns the next inbound message, or (nil, nil) if none arrived
// within maxWait.
func (s *Server) Receive(maxWait time.Duration) (*avatar.Packet, error) {
	if len(s.pending) > 0 {
		pkt := s.pending[0]
		s.pending = s.pending[1:]
		return pkt, nil
	}

	s.srv.ReadTimeout = maxWait
	raw, err := s.srv.ReceivePacket(s.conn)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil, nil
		}
		return nil, fmt.Errorf("receive: %w", err)
	}

	s.pending = appendPackets(s.pending, raw)
	if len(s.pending) == 0 {
		return nil, nil
	}
	pkt := s.pending[0]
	s.pending = s.pending[1:]
	return pkt, nil
}

// appendPackets flattens a packet (message or nested bundle) into engine
// packets in wire order.
func appendPackets(dst []*avatar.Packet, raw goosc.Packet) []*avatar.Packet {
	switch p := raw.(type) {
	case *goosc.Message:
		dst = append(dst, &avatar.Packet{Address: p.Address, Args: p.Arguments})
	case *goosc.Bundle:
		for _, m := range p.Messages {
			dst = append(dst, &avatar.Packet{Address: m.Address, Args: m.Arguments})
		}
		for _, b := range p.Bundles {
			dst = appendPackets(dst, b)
		}
	}
	return dst
}

// LocalAddr returns the bound listen address.
func (s *Server) LocalAddr() net.Addr { return s.conn.LocalAddr() }

// Close releases the socket.
func (s *Server) Close() error { return s.conn.Close() }
