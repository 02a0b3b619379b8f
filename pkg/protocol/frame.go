package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 4

	// MaxPayloadSize is the maximum payload size (2^16 - 1 bytes).
	MaxPayloadSize = 65535
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameMutations FrameType = 0x01 // Batch of host mutations
	FrameHTML      FrameType = 0x02 // Serialized tree snapshot
	FramePing      FrameType = 0x03 // Keepalive
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameMutations:
		return "Mutations"
	case FrameHTML:
		return "HTML"
	case FramePing:
		return "Ping"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	// FlagContinued marks a frame whose batch continues in the next frame.
	FlagContinued FrameFlags = 0x01
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is a header plus payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame with the given type and payload.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	f.EncodeTo(e)
	return e.Bytes()
}

// EncodeTo encodes the frame using the provided encoder.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint16(uint16(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// DecodeFrame decodes a frame from bytes holding the header and the full
// payload.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	ft, flags, length := parseHeader(data)
	if err := checkType(ft); err != nil {
		return nil, err
	}
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// ReadFrame reads a complete frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, flags, length := parseHeader(header)
	if err := checkType(ft); err != nil {
		return nil, err
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

// WriteFrame writes a complete frame to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}

func parseHeader(h []byte) (FrameType, FrameFlags, int) {
	return FrameType(h[0]), FrameFlags(h[1]), int(h[2])<<8 | int(h[3])
}

func checkType(ft FrameType) error {
	switch ft {
	case FrameMutations, FrameHTML, FramePing:
		return nil
	}
	return ErrInvalidFrameType
}
