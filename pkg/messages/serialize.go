package messages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Encoding describes how outbound messages are written for one connection.
type Encoding struct {
	Codec       Codec
	Compression Compression
}

// DefaultEncoding is plain JSON text.
var DefaultEncoding = Encoding{Codec: CodecJSON, Compression: CompressionNone}

// ParseEncoding parses codec and compression names. Empty values select the defaults.
func ParseEncoding(codec string, compression string) (Encoding, error) {
	e := DefaultEncoding
	switch Codec(codec) {
	case "", CodecJSON:
	case CodecMsgpack:
		e.Codec = CodecMsgpack
	default:
		return Encoding{}, fmt.Errorf("unknown codec: %s", codec)
	}
	switch Compression(compression) {
	case "", CompressionNone:
	case CompressionZstd:
		e.Compression = CompressionZstd
	default:
		return Encoding{}, fmt.Errorf("unknown compression: %s", compression)
	}
	return e, nil
}

// Binary reports whether encoded messages must be sent as binary frames.
func (e Encoding) Binary() bool {
	return e.Codec != CodecJSON || e.Compression != CompressionNone
}

// SerializeMessage wraps the payload in an envelope and encodes it.
func (e Encoding) SerializeMessage(messageType MessageType, payload interface{}) ([]byte, error) {
	envelope := &Envelope{
		Type:    messageType,
		Payload: payload,
	}

	var b []byte
	var err error
	switch e.Codec {
	case CodecMsgpack:
		b, err = marshalMsgpack(envelope)
	default:
		b, err = json.Marshal(envelope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %v", messageType, err)
	}

	if e.Compression != CompressionZstd {
		return b, nil
	}
	return compress(b)
}

// DeserializeMessage reverses SerializeMessage into v, which receives the envelope.
func (e Encoding) DeserializeMessage(data []byte, v interface{}) error {
	if e.Compression == CompressionZstd {
		b, err := decompress(data)
		if err != nil {
			return err
		}
		data = b
	}

	switch e.Codec {
	case CodecMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to unmarshal msgpack message: %v", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal json message: %v", err)
		}
	}
	return nil
}

func marshalMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compress(b []byte) ([]byte, error) {
	compressed := bytes.NewBuffer(nil)
	compWriter, err := zstd.NewWriter(compressed, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd writer: %v", err)
	}
	if _, err := compWriter.Write(b); err != nil {
		return nil, fmt.Errorf("failed to compress message: %v", err)
	}
	if err := compWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zstd writer: %v", err)
	}
	return compressed.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	compReader, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %v", err)
	}
	defer compReader.Close()
	b, err := io.ReadAll(compReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read decompressed message: %v", err)
	}
	return b, nil
}

// DeserializeInbound decodes a client message. Clients always send JSON envelopes.
func DeserializeInbound(data []byte) (*Message, error) {
	message := &Message{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %v", err)
	}
	if message.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}
	return message, nil
}

// DecodePayload unmarshals the payload of an inbound message.
func (m *Message) DecodePayload(v interface{}) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s message has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v", m.Type, err)
	}
	return nil
}

// ServerMessage is an outbound envelope read back on the client side. The
// payload is kept raw until its type is known.
type ServerMessage struct {
	Type     MessageType
	encoding Encoding
	payload  []byte
}

type msgpackEnvelope struct {
	Type    MessageType        `json:"type"`
	Payload msgpack.RawMessage `json:"payload"`
}

// DeserializeServerMessage decodes the envelope of a message written by SerializeMessage.
func (e Encoding) DeserializeServerMessage(data []byte) (*ServerMessage, error) {
	if e.Compression == CompressionZstd {
		b, err := decompress(data)
		if err != nil {
			return nil, err
		}
		data = b
	}

	message := &ServerMessage{encoding: Encoding{Codec: e.Codec, Compression: CompressionNone}}
	switch e.Codec {
	case CodecMsgpack:
		envelope := &msgpackEnvelope{}
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(envelope); err != nil {
			return nil, fmt.Errorf("failed to unmarshal msgpack envelope: %v", err)
		}
		message.Type, message.payload = envelope.Type, envelope.Payload
	default:
		envelope := &Message{}
		if err := json.Unmarshal(data, envelope); err != nil {
			return nil, fmt.Errorf("failed to unmarshal json envelope: %v", err)
		}
		message.Type, message.payload = envelope.Type, envelope.Payload
	}
	if message.Type == "" {
		return nil, fmt.Errorf("message has no type")
	}
	return message, nil
}

// DecodePayload unmarshals the payload of a server message.
func (m *ServerMessage) DecodePayload(v interface{}) error {
	if len(m.payload) == 0 {
		return fmt.Errorf("%s message has no payload", m.Type)
	}
	if err := m.encoding.DeserializeMessage(m.payload, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %v", m.Type, err)
	}
	return nil
}
