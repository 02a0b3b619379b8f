package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/recon/pkg/host"
)

// ErrInvalidOp is returned when a payload names an unknown mutation type.
var ErrInvalidOp = errors.New("protocol: invalid mutation op")

// EncodeMutation appends one mutation to e.
func EncodeMutation(e *Encoder, m host.Mutation) {
	e.WriteUvarint(m.Seq)
	e.WriteByte(byte(m.Op))
	e.WriteUvarint(m.Node)
	e.WriteUvarint(m.Parent)
	e.WriteUvarint(m.Ref)
	e.WriteString(m.Name)
	e.WriteString(m.Value)
}

// MutationLen returns the encoded size of m.
func MutationLen(m host.Mutation) int {
	return UvarintLen(m.Seq) + 1 +
		UvarintLen(m.Node) + UvarintLen(m.Parent) + UvarintLen(m.Ref) +
		UvarintLen(uint64(len(m.Name))) + len(m.Name) +
		UvarintLen(uint64(len(m.Value))) + len(m.Value)
}

// DecodeMutation reads one mutation from d.
func DecodeMutation(d *Decoder) (host.Mutation, error) {
	var m host.Mutation
	var err error
	if m.Seq, err = d.ReadUvarint(); err != nil {
		return m, err
	}
	op, err := d.ReadByte()
	if err != nil {
		return m, err
	}
	m.Op = host.Op(op)
	if !validOp(m.Op) {
		return m, fmt.Errorf("%w: 0x%02x", ErrInvalidOp, op)
	}
	if m.Node, err = d.ReadUvarint(); err != nil {
		return m, err
	}
	if m.Parent, err = d.ReadUvarint(); err != nil {
		return m, err
	}
	if m.Ref, err = d.ReadUvarint(); err != nil {
		return m, err
	}
	if m.Name, err = d.ReadString(); err != nil {
		return m, err
	}
	if m.Value, err = d.ReadString(); err != nil {
		return m, err
	}
	return m, nil
}

// EncodeMutations encodes a batch as a count-prefixed payload.
func EncodeMutations(ms []host.Mutation) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(len(ms)))
	for _, m := range ms {
		EncodeMutation(e, m)
	}
	return e.Bytes()
}

// DecodeMutations decodes a count-prefixed payload.
func DecodeMutations(payload []byte) ([]host.Mutation, error) {
	d := NewDecoder(payload)
	n, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	out := make([]host.Mutation, 0, n)
	for i := 0; i < n; i++ {
		m, err := DecodeMutation(d)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// EncodeMutationFrames packs ms into FrameMutations frames no larger than
// MaxPayloadSize. Every frame but the last carries FlagContinued. A
// mutation too large for any frame fails with ErrFrameTooLarge.
func EncodeMutationFrames(ms []host.Mutation) ([]*Frame, error) {
	const countRoom = 3 // varint of any count that fits a frame
	var frames []*Frame
	var batch []host.Mutation
	size := countRoom

	flush := func() {
		frames = append(frames, NewFrame(FrameMutations, EncodeMutations(batch)))
		batch, size = nil, countRoom
	}

	for _, m := range ms {
		n := MutationLen(m)
		if countRoom+n > MaxPayloadSize {
			return nil, ErrFrameTooLarge
		}
		if size+n > MaxPayloadSize {
			flush()
		}
		batch = append(batch, m)
		size += n
	}
	if len(batch) > 0 || len(frames) == 0 {
		flush()
	}
	for _, f := range frames[:len(frames)-1] {
		f.Flags |= FlagContinued
	}
	return frames, nil
}

func validOp(op host.Op) bool {
	for _, o := range host.Ops {
		if o == op {
			return true
		}
	}
	return false
}
