package server

import (
	"context"
	"net"
	"testing"
	"time"

	"cristiangs/gobcast/pkg/client"
	"cristiangs/gobcast/pkg/config"
	"cristiangs/gobcast/pkg/handler"
	"cristiangs/gobcast/pkg/transport/tcp"
)

const testTimeout = 2 * time.Second

type recorder struct {
	ch chan any
}

func (r *recorder) OnMessage(c *handler.Conn, payload any) {
	r.ch <- payload
}

func waitCond(t *testing.T, desc string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(testTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", desc)
}

func TestServe_RelaysBetweenClients(t *testing.T) {
	t.Parallel()

	cfg := &config.Shared{
		Host:       "127.0.0.1",
		Port:       0, // ephemeral
		MaxClients: 2,
	}

	s := New(cfg)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	defer s.Close()

	if !s.Handler().Listening() {
		t.Fatal("Handler().Listening() = false after Serve()")
	}

	addr := s.Handler().Listener().Addr().String()

	var conns [2]*handler.Conn
	var recs [2]*recorder
	for i := range conns {
		d, err := tcp.NewDialer(addr)
		if err != nil {
			t.Fatalf("NewDialer() error = %v", err)
		}
		nc, err := d.Dial()
		if err != nil {
			t.Fatalf("Dial() #%d error = %v", i, err)
		}
		c, err := handler.NewConn(nc)
		if err != nil {
			t.Fatalf("NewConn() #%d error = %v", i, err)
		}
		defer c.Close()

		recs[i] = &recorder{ch: make(chan any, 4)}
		c.AddMessageListener(recs[i])
		c.StartReceiving()
		conns[i] = c
	}

	waitCond(t, "both clients admitted", func() bool {
		return s.Handler().NumConns() == 2
	})

	conns[0].Send("round trip")

	// relay reaches every client, the sender included
	for i, rec := range recs {
		select {
		case got := <-rec.ch:
			if got != "round trip" {
				t.Errorf("client #%d received %v, want %q", i, got, "round trip")
			}
		case <-time.After(testTimeout):
			t.Fatalf("client #%d timed out waiting for relay", i)
		}
	}
}

func TestServe_DefaultsMaxClients(t *testing.T) {
	t.Parallel()

	cfg := &config.Shared{
		Host: "127.0.0.1",
		Port: 0, // MaxClients unset, the default batch size applies
	}

	s := New(cfg)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	defer s.Close()

	port := s.Handler().Listener().Addr().(*net.TCPAddr).Port

	c := client.New(context.Background(), &config.Shared{
		Host: "127.0.0.1",
		Port: port,
	})
	if _, err := c.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	waitCond(t, "client admitted", func() bool {
		return s.Handler().NumConns() == 1
	})
}

func TestServe_BadAddress(t *testing.T) {
	t.Parallel()

	cfg := &config.Shared{
		Host: "host with spaces",
		Port: 1,
	}

	s := New(cfg)
	if err := s.Serve(); err == nil {
		t.Fatal("Serve() with bad host error = nil")
	}
}

func TestClose_BeforeServe(t *testing.T) {
	t.Parallel()

	s := New(&config.Shared{})
	if err := s.Close(); err != nil {
		t.Errorf("Close() before Serve() error = %v", err)
	}
}

func TestClose_ShutsHubDown(t *testing.T) {
	t.Parallel()

	cfg := &config.Shared{
		Host:       "127.0.0.1",
		Port:       0,
		MaxClients: 1,
	}

	s := New(cfg)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	addr := s.Handler().Listener().Addr().String()
	d, err := tcp.NewDialer(addr)
	if err != nil {
		t.Fatalf("NewDialer() error = %v", err)
	}
	if nc, err := d.Dial(); err == nil {
		nc.Close()
		t.Error("Dial() after Close() succeeded")
	}
}
