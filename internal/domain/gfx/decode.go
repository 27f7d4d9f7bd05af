package gfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/younwookim/arcamini/internal/domain/resource"
)

// ErrMalformedBatch is returned when an op stream does not follow the
// record layout. It always indicates an encoder bug.
var ErrMalformedBatch = errors.New("malformed drawing batch")

// Op is one decoded drawing record.
//
// Fields holds the raw 4-byte payload words in wire order. Text is the
// resolved string of a FILLTEXT record and empty otherwise.
type Op struct {
	Code   Opcode
	Fields []uint32
	Text   string
}

// Uint returns payload word i.
func (o Op) Uint(i int) uint32 { return o.Fields[i] }

// Int returns payload word i as a signed integer.
func (o Op) Int(i int) int32 { return int32(o.Fields[i]) }

// Float returns payload word i as a float.
func (o Op) Float(i int) float32 { return math.Float32frombits(o.Fields[i]) }

// String formats the op for logs and test failures
func (o Op) String() string {
	switch o.Code {
	case OpColor:
		return fmt.Sprintf("COLOR(0x%08X)", o.Uint(0))
	case OpLineWidth:
		return fmt.Sprintf("LINEWIDTH(%g)", o.Float(0))
	case OpClipRect:
		return fmt.Sprintf("CLIPRECT(%d,%d,%d,%d)", o.Int(0), o.Int(1), o.Int(2), o.Int(3))
	case OpFillRect, OpDrawRect, OpDrawLine:
		return fmt.Sprintf("%s(%g,%g,%g,%g)", o.Code, o.Float(0), o.Float(1), o.Float(2), o.Float(3))
	case OpDrawImage:
		return fmt.Sprintf("DRAWIMAGE(%d,%g,%g,%g,%g,%d)", o.Uint(0), o.Float(1), o.Float(2), o.Float(3), o.Float(4), o.Int(5))
	case OpFillText:
		return fmt.Sprintf("FILLTEXT(%d,%g,%g,offset=%d,%d)", o.Uint(0), o.Float(1), o.Float(2), o.Uint(3), o.Uint(4))
	}
	return fmt.Sprintf("%s%v", o.Code, o.Fields)
}

// Renderer receives decoded operations from Walk.
type Renderer interface {
	Color(rgba uint32)
	LineWidth(w float32)
	ClipRect(x, y, w, h int32)
	FillRect(x, y, w, h float32)
	DrawRect(x, y, w, h float32)
	DrawLine(x1, y1, x2, y2 float32)
	DrawImage(img resource.Handle, x, y, rot, scale float32, flip int32)
	FillText(font resource.Handle, x, y float32, text string, align uint32)
}

// Decode parses a whole batch into ops, in emission order.
func Decode(ops []byte, strings []byte) ([]Op, error) {
	var out []Op
	err := scan(ops, strings, func(op Op) {
		out = append(out, op)
	})
	return out, err
}

// Walk decodes a batch and dispatches every op to r. Ops before a malformed
// record are still dispatched.
func Walk(ops []byte, strings []byte, r Renderer) error {
	return scan(ops, strings, func(op Op) {
		dispatch(op, r)
	})
}

// Count returns the number of records per opcode in a batch.
func Count(ops []byte) (map[Opcode]int, error) {
	counts := make(map[Opcode]int)
	for pos := 0; pos < len(ops); {
		if len(ops)-pos < 4 {
			return counts, fmt.Errorf("%w: truncated tag at %d", ErrMalformedBatch, pos)
		}
		code := Opcode(binary.LittleEndian.Uint32(ops[pos:]))
		size := code.RecordSize()
		if size == 0 {
			return counts, fmt.Errorf("%w: unknown opcode %d at %d", ErrMalformedBatch, uint32(code), pos)
		}
		if len(ops)-pos < size {
			return counts, fmt.Errorf("%w: truncated %s record at %d", ErrMalformedBatch, code, pos)
		}
		counts[code]++
		pos += size
	}
	return counts, nil
}

func scan(ops []byte, strings []byte, fn func(Op)) error {
	pos := 0
	for pos < len(ops) {
		if len(ops)-pos < 4 {
			return fmt.Errorf("%w: truncated tag at %d", ErrMalformedBatch, pos)
		}
		code := Opcode(binary.LittleEndian.Uint32(ops[pos:]))
		n, ok := fieldCount[code]
		if !ok {
			return fmt.Errorf("%w: unknown opcode %d at %d", ErrMalformedBatch, uint32(code), pos)
		}
		if len(ops)-pos < 4*(n+1) {
			return fmt.Errorf("%w: truncated %s record at %d", ErrMalformedBatch, code, pos)
		}
		op := Op{Code: code, Fields: make([]uint32, n)}
		for i := range op.Fields {
			op.Fields[i] = binary.LittleEndian.Uint32(ops[pos+4*(i+1):])
		}
		if code == OpFillText {
			text, err := lookupString(strings, op.Fields[3])
			if err != nil {
				return fmt.Errorf("%w: %s record at %d: %v", ErrMalformedBatch, code, pos, err)
			}
			op.Text = text
		}
		fn(op)
		pos += 4 * (n + 1)
	}
	return nil
}

func lookupString(table []byte, off uint32) (string, error) {
	if int(off) >= len(table) {
		return "", fmt.Errorf("text offset %d out of bounds (table %d bytes)", off, len(table))
	}
	end := bytes.IndexByte(table[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("text at offset %d is not terminated", off)
	}
	return string(table[off : int(off)+end]), nil
}

func dispatch(op Op, r Renderer) {
	switch op.Code {
	case OpColor:
		r.Color(op.Uint(0))
	case OpLineWidth:
		r.LineWidth(op.Float(0))
	case OpClipRect:
		r.ClipRect(op.Int(0), op.Int(1), op.Int(2), op.Int(3))
	case OpFillRect:
		r.FillRect(op.Float(0), op.Float(1), op.Float(2), op.Float(3))
	case OpDrawRect:
		r.DrawRect(op.Float(0), op.Float(1), op.Float(2), op.Float(3))
	case OpDrawLine:
		r.DrawLine(op.Float(0), op.Float(1), op.Float(2), op.Float(3))
	case OpDrawImage:
		r.DrawImage(resource.Handle(op.Uint(0)), op.Float(1), op.Float(2), op.Float(3), op.Float(4), op.Int(5))
	case OpFillText:
		r.FillText(resource.Handle(op.Uint(0)), op.Float(1), op.Float(2), op.Text, op.Uint(4))
	}
}
