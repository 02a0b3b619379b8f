package host

// Op is the type of host mutation.
type Op uint8

const (
	OpCreateElement Op = 0x01 // Create a detached element
	OpCreateText    Op = 0x02 // Create a detached text node
	OpAppend        Op = 0x03 // Append child
	OpInsert        Op = 0x04 // Insert (or move) before a sibling
	OpReplace       Op = 0x05 // Replace a child in place
	OpRemove        Op = 0x06 // Detach a child
	OpSetAttr       Op = 0x07 // Set generic attribute
	OpRemoveAttr    Op = 0x08 // Remove generic attribute
	OpSetField      Op = 0x09 // Assign checked/value/className
	OpSetStyle      Op = 0x0A // Merge style field
	OpListen        Op = 0x0B // Bind event listener
	OpUnlisten      Op = 0x0C // Unbind event listener
	OpFocus         Op = 0x0D // Move focus
)

// Ops lists every mutation type in wire order.
var Ops = []Op{
	OpCreateElement, OpCreateText, OpAppend, OpInsert, OpReplace, OpRemove,
	OpSetAttr, OpRemoveAttr, OpSetField, OpSetStyle, OpListen, OpUnlisten, OpFocus,
}

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpAppend:
		return "Append"
	case OpInsert:
		return "Insert"
	case OpReplace:
		return "Replace"
	case OpRemove:
		return "Remove"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetField:
		return "SetField"
	case OpSetStyle:
		return "SetStyle"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	case OpFocus:
		return "Focus"
	default:
		return "Unknown"
	}
}

// Structural reports whether the op changes tree shape.
func (op Op) Structural() bool {
	switch op {
	case OpAppend, OpInsert, OpReplace, OpRemove:
		return true
	}
	return false
}

// Mutation is a single recorded host operation. Node identifiers are
// assigned by the adapter that recorded the mutation; 0 means none.
type Mutation struct {
	Seq    uint64 `json:"seq"`
	Op     Op     `json:"op"`
	Node   uint64 `json:"node"`
	Parent uint64 `json:"parent,omitempty"`
	Ref    uint64 `json:"ref,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}
