package domain

import "fmt"

// Reserved label slot and default mesh size of the standard fsaverage surface.
const (
	UnlabeledKey       = 0
	UnlabeledName      = "Unlabeled"
	DefaultVertexCount = 163842
)

// UnlabeledColor is the color written for key 0 in merged annotations.
var UnlabeledColor = Color{R: 25, G: 5, B: 25}

// Color is an RGB triple as stored in a colortable row
type Color struct {
	R int
	G int
	B int
}

// Mean returns the component-wise integer mean of two colors
func (c Color) Mean(o Color) Color {
	return Color{
		R: (c.R + o.R) / 2,
		G: (c.G + o.G) / 2,
		B: (c.B + o.B) / 2,
	}
}

// Packed returns the annotation value a vertex carries on disk for this color
func (c Color) Packed() int32 {
	return int32(c.R) | int32(c.G)<<8 | int32(c.B)<<16
}

// Hex renders the color as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R&0xff, c.G&0xff, c.B&0xff)
}
