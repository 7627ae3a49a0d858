package tcp

import (
	"bytes"
	"errors"
	"net"
	"testing"
)

func TestListenAndDial(t *testing.T) {
	t.Parallel()

	n := NewNetwork()

	ln, err := n.Listen("hub:1234")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	conn, err := n.Dial("hub:1234")
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	accepted, err := ln.Accept()
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	defer accepted.Close()

	want := []byte("ping")
	go conn.Write(want)

	got := make([]byte, len(want))
	if _, err := accepted.Read(got); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("read %q, want %q", got, want)
	}
}

func TestListen_AddressInUse(t *testing.T) {
	t.Parallel()

	n := NewNetwork()

	if _, err := n.Listen("hub:1"); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if _, err := n.Listen("hub:1"); err == nil {
		t.Fatal("second Listen() on same address error = nil")
	}
}

func TestDial_NoListener(t *testing.T) {
	t.Parallel()

	n := NewNetwork()

	if _, err := n.Dial("nowhere:9"); err == nil {
		t.Fatal("Dial() without listener error = nil")
	}
}

func TestClose_UnbindsAndStopsAccept(t *testing.T) {
	t.Parallel()

	n := NewNetwork()

	ln, err := n.Listen("hub:2")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if err := ln.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := ln.Accept(); !errors.Is(err, net.ErrClosed) {
		t.Errorf("Accept() after Close() error = %v, want %v", err, net.ErrClosed)
	}
	if _, err := n.Dial("hub:2"); err == nil {
		t.Error("Dial() after Close() error = nil")
	}

	// the address is free again
	if _, err := n.Listen("hub:2"); err != nil {
		t.Errorf("Listen() after Close() error = %v", err)
	}
}
