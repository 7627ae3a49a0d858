package handler

import (
	"bytes"
	"testing"
)

type customPayload struct {
	Kind string
	Seq  int
}

func init() {
	RegisterPayload(customPayload{})
}

func TestGobCodec_InterfaceRoundtrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := GobCodec{}.NewEncoder(&buf)
	dec := GobCodec{}.NewDecoder(&buf)

	var in any = "hello"
	if err := enc.Encode(&in); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var out any
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Decode() = %v, want %q", out, "hello")
	}
}

func TestGobCodec_RegisteredStruct(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := GobCodec{}.NewEncoder(&buf)
	dec := GobCodec{}.NewDecoder(&buf)

	var in any = customPayload{Kind: "join", Seq: 7}
	if err := enc.Encode(&in); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var out any
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	got, ok := out.(customPayload)
	if !ok {
		t.Fatalf("Decode() concrete type = %T, want customPayload", out)
	}
	if got != (customPayload{Kind: "join", Seq: 7}) {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestGobCodec_StreamReuse(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	enc := GobCodec{}.NewEncoder(&buf)
	dec := GobCodec{}.NewDecoder(&buf)

	// one encoder/decoder pair carries many frames
	for i := 0; i < 3; i++ {
		var in any = i
		if err := enc.Encode(&in); err != nil {
			t.Fatalf("Encode() #%d error = %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		var out any
		if err := dec.Decode(&out); err != nil {
			t.Fatalf("Decode() #%d error = %v", i, err)
		}
		if out != i {
			t.Errorf("frame #%d = %v", i, out)
		}
	}
}
