package handler

import (
	"encoding/gob"
	"io"
)

// Encoder writes one framed payload per Encode call.
type Encoder interface {
	Encode(v any) error
}

// Decoder reads one framed payload per Decode call, blocking until a full
// frame is available.
type Decoder interface {
	Decode(v *any) error
}

// Codec produces the per-direction serializers bound to a connection's byte
// streams. One encoder and one decoder are created lazily per connection and
// reused for its lifetime. Both sides of a connection must use compatible
// codecs.
type Codec interface {
	NewEncoder(w io.Writer) Encoder
	NewDecoder(r io.Reader) Decoder
}

// GobCodec frames payloads with encoding/gob. It is the default codec.
//
// Payloads travel as gob interface values, so both endpoints must register
// the concrete types they exchange, see RegisterPayload. Common scalar,
// slice and map types are pre-registered.
type GobCodec struct{}

// NewEncoder returns a gob encoder writing to w.
func (GobCodec) NewEncoder(w io.Writer) Encoder {
	return gob.NewEncoder(w)
}

// NewDecoder returns a gob decoder reading from r.
func (GobCodec) NewDecoder(r io.Reader) Decoder {
	return gobDecoder{dec: gob.NewDecoder(r)}
}

type gobDecoder struct {
	dec *gob.Decoder
}

func (d gobDecoder) Decode(v *any) error {
	return d.dec.Decode(v)
}

// RegisterPayload registers a concrete payload type with the gob codec.
// Both endpoints must register the same types before exchanging them.
func RegisterPayload(v any) {
	gob.Register(v)
}

func init() {
	gob.Register("")
	gob.Register(false)
	gob.Register(int(0))
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register([]byte(nil))
	gob.Register([]any(nil))
	gob.Register(map[string]any(nil))
}
