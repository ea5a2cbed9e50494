package render

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"phase-lab/pkg/phase"
)

// ErrBadColor is returned by ParseHex for malformed color strings.
var ErrBadColor = errors.New("bad color")

// Palette holds the base color of every particle, indexed by its id.
var Palette = [phase.NumParticles]color.RGBA{
	phase.Empty:    {0x00, 0x00, 0x00, 0xff},
	phase.Wall:     {0x33, 0x33, 0x33, 0xff},
	phase.Ice:      {0xb2, 0xeb, 0xf2, 0xff},
	phase.Water:    {0x03, 0xa9, 0xf4, 0xff},
	phase.Steam:    {0xcf, 0xd8, 0xdc, 0xff},
	phase.Acid:     {0xff, 0x17, 0x44, 0xff},
	phase.Base:     {0x3d, 0x5a, 0xfe, 0xff},
	phase.Salt:     {0xff, 0xff, 0xff, 0xff},
	phase.Iron:     {0x78, 0x90, 0x9c, 0xff},
	phase.Graphite: {0x26, 0x32, 0x38, 0xff},
	phase.Gold:     {0xff, 0xd7, 0x00, 0xff},
	phase.Silt:     {0xd7, 0xcc, 0xc8, 0xff},
	phase.Membrane: {0x54, 0x6e, 0x7a, 0xff},
	phase.Clay:     {0xa1, 0x88, 0x7f, 0xff},
	phase.Granite:  {0x42, 0x42, 0x42, 0xff},
	phase.Glass:    {129, 212, 250, 102},
	phase.Mirror:   {0xb0, 0xbe, 0xc5, 0xff},
	phase.Photon:   {0xff, 0xff, 0xff, 0xff},
	phase.Copper:   {0xb8, 0x73, 0x33, 0xff},
	phase.Silicon:  {0x4a, 0x4a, 0x4a, 0xff},
	phase.Electron: {0xff, 0xff, 0x00, 0xff},
	phase.Isotope:  {0x4a, 0xf6, 0x26, 0xff},
	phase.Lead:     {0x54, 0x6e, 0x7a, 0xff},
	phase.Neutron:  {0xff, 0xfc, 0x00, 0xff},
}

var (
	membraneGrain = color.RGBA{0x37, 0x47, 0x4f, 0xff}
	clayGrain     = color.RGBA{0x8d, 0x6e, 0x63, 0xff}
	graniteGrain  = color.RGBA{0x61, 0x61, 0x61, 0xff}
)

// chargeThreshold is the charge above which a conductor is drawn lit.
const chargeThreshold = 0.1

// Background is the default field color.
var Background = color.RGBA{0x0d, 0x11, 0x17, 0xff}

// ParseHex decodes "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, ErrBadColor
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, ErrBadColor
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// Color returns the display color of p at (x, y) carrying charge c. Strata
// get a fixed positional grain and charged cells a yellow-white tint.
func Color(p phase.Particle, x, y int, c float32) color.RGBA {
	if !p.Valid() {
		return Palette[phase.Wall]
	}
	if c > chargeThreshold && p != phase.Empty {
		base := color.RGBA{100, 100, 255, 0xff}
		if p == phase.Copper {
			base = Palette[phase.Copper]
		}
		return color.RGBA{
			R: tint(base.R, 71, c),
			G: tint(base.G, 140, c),
			B: tint(base.B, 204, c),
			A: 0xff,
		}
	}
	switch p {
	case phase.Membrane:
		if (x+y)%4 == 0 {
			return membraneGrain
		}
	case phase.Clay:
		if (x*7+y*3)%11 < 4 {
			return clayGrain
		}
	case phase.Granite:
		if (x*13+y*5)%7 == 0 {
			return graniteGrain
		}
	}
	return Palette[p]
}

func tint(v uint8, gain float32, c float32) uint8 {
	return uint8(min(255, float32(v)+gain*c))
}

// blend composites src over dst using src's alpha.
func blend(src, dst color.RGBA) color.RGBA {
	if src.A == 0xff {
		return src
	}
	a := uint16(src.A)
	mix := func(s, d uint8) uint8 {
		return uint8((uint16(s)*a + uint16(d)*(255-a)) / 255)
	}
	return color.RGBA{mix(src.R, dst.R), mix(src.G, dst.G), mix(src.B, dst.B), 0xff}
}
