package mux

import (
	"bytes"
	"net"
	"testing"
)

func TestDialer_StreamsShareOneSession(t *testing.T) {
	t.Parallel()

	ln, err := NewListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewListener() error = %v", err)
	}
	defer ln.Close()

	d := NewDialer(ln.Addr().String())
	defer d.Close()

	type accepted struct {
		conn net.Conn
		err  error
	}
	acceptCh := make(chan accepted, 2)
	go func() {
		for i := 0; i < 2; i++ {
			conn, err := ln.Accept()
			acceptCh <- accepted{conn: conn, err: err}
		}
	}()

	// two logical connections over one TCP socket
	s1, err := d.Dial()
	if err != nil {
		t.Fatalf("Dial() #1 error = %v", err)
	}
	defer s1.Close()

	s2, err := d.Dial()
	if err != nil {
		t.Fatalf("Dial() #2 error = %v", err)
	}
	defer s2.Close()

	for i := 0; i < 2; i++ {
		a := <-acceptCh
		if a.err != nil {
			t.Fatalf("Accept() #%d error = %v", i, a.err)
		}
		defer a.conn.Close()

		want := []byte("stream hello")
		go a.conn.Write(want)

		var got bytes.Buffer
		buf := make([]byte, len(want))
		var stream net.Conn
		if i == 0 {
			stream = s1
		} else {
			stream = s2
		}
		if _, err := stream.Read(buf); err != nil {
			t.Fatalf("Read() on stream #%d error = %v", i, err)
		}
		got.Write(buf)
		if !bytes.Equal(got.Bytes(), want) {
			t.Errorf("stream #%d read %q, want %q", i, got.Bytes(), want)
		}
	}
}

func TestListener_AcceptAfterClose(t *testing.T) {
	t.Parallel()

	ln, err := NewListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewListener() error = %v", err)
	}

	if err := ln.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := ln.Accept(); err == nil {
		t.Fatal("Accept() after Close() error = nil")
	}
}
