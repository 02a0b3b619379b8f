// Package protocol encodes host mutation journals for the inspector's
// live stream.
//
// Mutations travel in frames:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// A FrameMutations payload is a varint count followed by that many
// mutations, each encoded as:
//
//	seq     uvarint
//	op      byte (host.Op)
//	node    uvarint
//	parent  uvarint
//	ref     uvarint
//	name    uvarint length + bytes
//	value   uvarint length + bytes
//
// EncodeMutationFrames splits a batch across as many frames as needed to
// keep each payload under MaxPayloadSize.
package protocol
