package render

import (
	"image/color"

	"phase-lab/pkg/phase"
)

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := min(int(c), last)
		put(buf, i, palette[idx])
	}
}

// FillPhase renders a particle field of width w into buf (4 bytes per cell).
// Empty cells take bg; translucent particles are blended over it. charge may
// be nil.
func FillPhase(buf []byte, cells []phase.Particle, charge []float32, w int, bg color.RGBA) {
	if w <= 0 {
		return
	}
	for i, p := range cells {
		if p == phase.Empty {
			put(buf, i, bg)
			continue
		}
		var c float32
		if i < len(charge) {
			c = charge[i]
		}
		put(buf, i, blend(Color(p, i%w, i/w, c), bg))
	}
}

// FillIDs renders raw particle ids with the flat palette.
func FillIDs(buf []byte, cells []uint8) {
	fillPaletteRGBA(buf, cells, Palette[:])
}

func put(buf []byte, i int, col color.RGBA) {
	base := i * 4
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}
