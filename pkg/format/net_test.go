package format

import (
	"net"
	"testing"
)

func TestAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 8080, "localhost:8080"},
		{"", 443, ":443"},
		{"::1", 9000, "[::1]:9000"},
	}

	for _, tt := range tests {
		if got := Addr(tt.host, tt.port); got != tt.want {
			t.Errorf("Addr(%q, %d) = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConn(t *testing.T) {
	t.Parallel()

	if got := Conn(nil); got != "<nil>" {
		t.Errorf("Conn(nil) = %q", got)
	}

	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	want := "pipe->pipe"
	if got := Conn(c1); got != want {
		t.Errorf("Conn() = %q, want %q", got, want)
	}
}
