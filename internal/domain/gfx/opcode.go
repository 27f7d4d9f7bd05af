package gfx

// Opcode tags one drawing record in a batch.
//
// The numeric values and payload layouts are the wire contract with the
// renderer. Never renumber an opcode or change its layout; add a new one.
type Opcode uint32

const (
	OpColor     Opcode = iota + 1 // rgba uint32
	OpLineWidth                   // width float32
	OpClipRect                    // x, y, w, h int32
	OpFillRect                    // x, y, w, h float32
	OpDrawRect                    // x, y, w, h float32
	OpDrawLine                    // x1, y1, x2, y2 float32
	OpDrawImage                   // img uint32, x, y, rot, scale float32, flip int32
	OpFillText                    // font uint32, x, y float32, text offset uint32, align uint32
)

// fieldCount is the number of 4-byte payload fields following the tag.
var fieldCount = map[Opcode]int{
	OpColor:     1,
	OpLineWidth: 1,
	OpClipRect:  4,
	OpFillRect:  4,
	OpDrawRect:  4,
	OpDrawLine:  4,
	OpDrawImage: 6,
	OpFillText:  5,
}

// RecordSize returns the encoded size in bytes of one record with this
// opcode, tag included. Unknown opcodes report 0.
func (o Opcode) RecordSize() int {
	n, ok := fieldCount[o]
	if !ok {
		return 0
	}
	return 4 * (n + 1)
}

// String returns the string representation of the opcode
func (o Opcode) String() string {
	switch o {
	case OpColor:
		return "COLOR"
	case OpLineWidth:
		return "LINEWIDTH"
	case OpClipRect:
		return "CLIPRECT"
	case OpFillRect:
		return "FILLRECT"
	case OpDrawRect:
		return "DRAWRECT"
	case OpDrawLine:
		return "DRAWLINE"
	case OpDrawImage:
		return "DRAWIMAGE"
	case OpFillText:
		return "FILLTEXT"
	default:
		return "Unknown"
	}
}

// Image flip flags for DrawImage.
const (
	FlipNone int32 = 0
	FlipX    int32 = 1
	FlipY    int32 = 2
)

// Text alignment flags for FillText. Horizontal and vertical flags combine.
const (
	AlignLeft   uint32 = 0
	AlignCenter uint32 = 1
	AlignRight  uint32 = 2
	AlignTop    uint32 = 0
	AlignMiddle uint32 = 4
	AlignBottom uint32 = 8
)
