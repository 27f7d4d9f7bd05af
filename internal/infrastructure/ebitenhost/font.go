package ebitenhost

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/younwookim/arcamini/internal/domain/resource"
)

type fontEntry struct {
	face text.Face
}

// LoadFont implements resource.Backend. name is a TrueType or OpenType file;
// an empty name selects the built-in font at the requested size.
func (h *Host) LoadFont(name string, size int) (resource.Handle, error) {
	if size <= 0 {
		return resource.Invalid, fmt.Errorf("invalid font size %d", size)
	}

	var src *text.GoTextFaceSource
	if name == "" {
		def, _ := entry[*fontEntry](h, 0)
		src = def.face.(*text.GoTextFace).Source
	} else {
		data, err := h.read(name)
		if err != nil {
			return resource.Invalid, err
		}
		src, err = text.NewGoTextFaceSource(bytes.NewReader(data))
		if err != nil {
			return resource.Invalid, fmt.Errorf("failed to parse font %s: %w", name, err)
		}
	}
	return h.add(&fontEntry{face: &text.GoTextFace{Source: src, Size: float64(size)}}), nil
}
