package ranker

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV is an 8-bit color on the 0-179 hue, 0-255 saturation/value scale
type HSV struct {
	H, S, V uint8
}

// Band is an inclusive HSV range
type Band struct {
	Lower, Upper HSV
}

var (
	GreenBand = Band{Lower: HSV{35, 50, 50}, Upper: HSV{85, 255, 255}}
	BlueBand  = Band{Lower: HSV{100, 50, 50}, Upper: HSV{140, 255, 255}}
)

// Contains reports whether c lies inside the band on every channel
func (b Band) Contains(c HSV) bool {
	return c.H >= b.Lower.H && c.H <= b.Upper.H &&
		c.S >= b.Lower.S && c.S <= b.Upper.S &&
		c.V >= b.Lower.V && c.V <= b.Upper.V
}

// ToHSV converts an 8-bit RGB triple to HSV
func ToHSV(r, g, b uint8) HSV {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := c.Hsv()

	hue := math.Round(h / 2)
	if hue >= 180 {
		hue -= 180
	}
	return HSV{
		H: uint8(hue),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// Ratios returns the share of pixels inside the green and blue bands.
// Alpha is ignored. An empty image has zero ratios.
func Ratios(img image.Image) (green, blue float64) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0, 0
	}

	var greenCount, blueCount int
	count := func(r, g, b uint8) {
		c := ToHSV(r, g, b)
		if GreenBand.Contains(c) {
			greenCount++
		}
		if BlueBand.Contains(c) {
			blueCount++
		}
	}

	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, y):]
			for x := 0; x < bounds.Dx(); x++ {
				p := row[x*4 : x*4+3]
				count(p[0], p[1], p[2])
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				p := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				count(p.R, p.G, p.B)
			}
		}
	}

	return float64(greenCount) / float64(total), float64(blueCount) / float64(total)
}
