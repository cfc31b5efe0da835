package osc

import (
	"net"
	"strconv"
	"testing"
	"time"

	goosc "github.com/hypebeast/go-osc/osc"

	"github.com/osckit/go-avatar/pkg/avatar"
)

func TestAppendPacketsFlattensBundles(t *testing.T) {
	msg := func(addr string) *goosc.Message { return goosc.NewMessage(addr) }

	inner := &goosc.Bundle{Messages: []*goosc.Message{msg("/c")}}
	outer := &goosc.Bundle{
		Messages: []*goosc.Message{msg("/a"), msg("/b")},
		Bundles:  []*goosc.Bundle{inner},
	}

	pkts := appendPackets(nil, outer)
	want := []string{"/a", "/b", "/c"}
	if len(pkts) != len(want) {
		t.Fatalf("got %d packets, want %d", len(pkts), len(want))
	}
	for i, addr := range want {
		if pkts[i].Address != addr {
			t.Errorf("packet[%d].Address = %s, want %s", i, pkts[i].Address, addr)
		}
	}
}

func TestAppendPacketsSingleMessage(t *testing.T) {
	m := goosc.NewMessage("/avatar/parameters/Upright")
	m.Append(float32(0.5))

	pkts := appendPackets(nil, m)
	if len(pkts) != 1 {
		t.Fatalf("got %d packets, want 1", len(pkts))
	}
	if pkts[0].Address != "/avatar/parameters/Upright" {
		t.Errorf("address = %s", pkts[0].Address)
	}
	if len(pkts[0].Args) != 1 || pkts[0].Args[0] != float32(0.5) {
		t.Errorf("args = %v, want [0.5]", pkts[0].Args)
	}
}

func TestRoundTripOverLoopback(t *testing.T) {
	server, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer server.Close()

	_, portStr, err := net.SplitHostPort(server.LocalAddr().String())
	if err != nil {
		t.Fatalf("SplitHostPort() error = %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi(%q) error = %v", portStr, err)
	}
	client := NewClient("127.0.0.1", port)

	if err := client.Send("/avatar/parameters/Test", int32(7)); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	var pkt *avatar.Packet
	deadline := time.Now().Add(2 * time.Second)
	for pkt == nil && time.Now().Before(deadline) {
		pkt, err = server.Receive(100 * time.Millisecond)
		if err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
	}
	if pkt == nil {
		t.Fatal("no packet received before deadline")
	}
	if pkt.Address != "/avatar/parameters/Test" {
		t.Errorf("address = %s", pkt.Address)
	}
	if len(pkt.Args) != 1 || pkt.Args[0] != int32(7) {
		t.Errorf("args = %v, want [7]", pkt.Args)
	}
}

func TestReceiveTimesOutQuietly(t *testing.T) {
	server, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer server.Close()

	pkt, err := server.Receive(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("Receive() on idle socket: error = %v", err)
	}
	if pkt != nil {
		t.Errorf("Receive() on idle socket = %+v, want nil", pkt)
	}
}
