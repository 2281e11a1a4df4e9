package surface

import (
	"image"
	"image/color"
	"image/draw"
)

// Neutral presentation background and stimulus palette.
var (
	backgroundColor = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	stimulusColor   = color.RGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}
	glowColor       = color.RGBA{R: 0xff, G: 0x8a, B: 0x80, A: 0xff}
	pipColor        = color.RGBA{R: 0x42, G: 0x42, B: 0x42, A: 0xff}
	flashColor      = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
)

// paint renders one frame: neutral clear, then the dot with its glow ring,
// countdown pips, or the capture flash depending on the frame kind.
func paint(img *image.RGBA, f frame) {
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	if f.blank {
		return
	}

	if f.flash {
		fillCircle(img, f.point.X, f.point.Y, f.radius, flashColor)
		strokeCircle(img, f.point.X, f.point.Y, f.radius+4, 2, flashColor)
		return
	}

	strokeCircle(img, f.point.X, f.point.Y, f.radius+4, 2, glowColor)
	fillCircle(img, f.point.X, f.point.Y, f.radius, stimulusColor)

	if f.remaining > 0 {
		drawPips(img, f.point.X, f.point.Y+f.radius+14, f.remaining)
	}
}

// fillCircle paints a filled disc clipped to the image bounds.
func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	if r <= 0 {
		return
	}
	b := img.Bounds()
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > rr {
				continue
			}
			x := cx + dx
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// strokeCircle paints a ring of the given thickness.
func strokeCircle(img *image.RGBA, cx, cy, r, thickness int, c color.RGBA) {
	if r <= 0 {
		return
	}
	b := img.Bounds()
	outer := r * r
	innerR := r - thickness
	inner := innerR * innerR
	for dy := -r; dy <= r; dy++ {
		y := cy + dy
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for dx := -r; dx <= r; dx++ {
			d := dx*dx + dy*dy
			if d > outer || d < inner {
				continue
			}
			x := cx + dx
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// drawPips renders the countdown as small discs centered under the stimulus.
const (
	pipRadius  = 3
	pipSpacing = 12
)

func drawPips(img *image.RGBA, cx, y, count int) {
	startX := cx - (count-1)*pipSpacing/2
	for i := 0; i < count; i++ {
		fillCircle(img, startX+i*pipSpacing, y, pipRadius, pipColor)
	}
}
