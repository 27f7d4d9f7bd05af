// Package gfx implements the batched drawing protocol.
//
// A Context accumulates drawing operations of one frame into two buffers:
// a stream of fixed-layout little-endian records and a table of
// NUL-terminated strings referenced by offset. Flush hands both buffers to
// the renderer in a single call. Decode and Walk read the same format back.
package gfx

import (
	"encoding/binary"
	"math"

	"github.com/younwookim/arcamini/internal/domain/resource"
)

// BatchExecutor executes one encoded batch. It is the single native entry
// point the drawing protocol talks to.
type BatchExecutor interface {
	ExecuteBatch(ops []byte, strings []byte)
}

// Context is the pending drawing batch of one frame.
//
// It is not safe for concurrent use; only the active scene's draw callback
// writes to it and the scene controller flushes it.
type Context struct {
	ops     []byte
	strings []byte
	offsets map[string]uint32
}

// NewContext creates an empty drawing context
func NewContext() *Context {
	return &Context{
		ops:     make([]byte, 0, 4096),
		strings: make([]byte, 0, 256),
		offsets: make(map[string]uint32),
	}
}

// Color sets the current drawing color, packed as 0xRRGGBBAA.
func (c *Context) Color(rgba uint32) {
	c.emit(OpColor, rgba)
}

// LineWidth sets the stroke width for DrawRect and DrawLine.
func (c *Context) LineWidth(w float32) {
	c.emit(OpLineWidth, f32(w))
}

// ClipRect restricts drawing to a rectangle. A width and height of -1
// disable clipping.
func (c *Context) ClipRect(x, y, w, h int32) {
	c.emit(OpClipRect, uint32(x), uint32(y), uint32(w), uint32(h))
}

// ClipReset disables clipping.
func (c *Context) ClipReset() {
	c.ClipRect(0, 0, -1, -1)
}

// FillRect draws a filled rectangle in the current color.
func (c *Context) FillRect(x, y, w, h float32) {
	c.emit(OpFillRect, f32(x), f32(y), f32(w), f32(h))
}

// DrawRect draws a rectangle outline in the current color and line width.
func (c *Context) DrawRect(x, y, w, h float32) {
	c.emit(OpDrawRect, f32(x), f32(y), f32(w), f32(h))
}

// DrawLine draws a line segment in the current color and line width.
func (c *Context) DrawLine(x1, y1, x2, y2 float32) {
	c.emit(OpDrawLine, f32(x1), f32(y1), f32(x2), f32(y2))
}

// DrawImage draws an image resource at (x, y) around its center point.
// rot is in radians, flip is a combination of FlipX and FlipY.
func (c *Context) DrawImage(img resource.Handle, x, y, rot, scale float32, flip int32) {
	c.emit(OpDrawImage, uint32(img), f32(x), f32(y), f32(rot), f32(scale), uint32(flip))
}

// FillText renders s with a font resource. align combines an Align flag for
// each axis.
func (c *Context) FillText(font resource.Handle, x, y float32, s string, align uint32) {
	c.emit(OpFillText, uint32(font), f32(x), f32(y), c.internString(s), align)
}

// Len returns the number of pending op bytes.
func (c *Context) Len() int {
	return len(c.ops)
}

// Empty reports whether no operation is pending.
func (c *Context) Empty() bool {
	return len(c.ops) == 0
}

// Bytes returns the pending op stream and string table. The slices are only
// valid until the next Flush or Reset.
func (c *Context) Bytes() (ops []byte, strings []byte) {
	return c.ops, c.strings
}

// Flush submits the pending batch to exec in one call and starts a fresh
// batch. Nothing is submitted when no operation is pending.
func (c *Context) Flush(exec BatchExecutor) {
	if len(c.ops) == 0 {
		return
	}
	exec.ExecuteBatch(c.ops, c.strings)
	c.Reset()
}

// Reset drops the pending batch. String offsets handed out before are no
// longer valid.
func (c *Context) Reset() {
	c.ops = c.ops[:0]
	c.strings = c.strings[:0]
	clear(c.offsets)
}

func (c *Context) emit(op Opcode, fields ...uint32) {
	c.ops = binary.LittleEndian.AppendUint32(c.ops, uint32(op))
	for _, v := range fields {
		c.ops = binary.LittleEndian.AppendUint32(c.ops, v)
	}
}

// internString returns the string table offset of s, appending it with a
// NUL terminator the first time it is seen in this batch.
func (c *Context) internString(s string) uint32 {
	if off, ok := c.offsets[s]; ok {
		return off
	}
	off := uint32(len(c.strings))
	c.strings = append(c.strings, s...)
	c.strings = append(c.strings, 0)
	c.offsets[s] = off
	return off
}

func f32(v float32) uint32 {
	return math.Float32bits(v)
}
