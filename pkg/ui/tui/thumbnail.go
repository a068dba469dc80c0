package tui

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// RenderThumbnail draws img width cells wide using upper half blocks, two
// pixel rows per line.
func RenderThumbnail(img image.Image, width int) string {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	if width > b.Dx() {
		width = b.Dx()
	}
	height := b.Dy() * width / b.Dx()
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	lines := make([]string, 0, height/2)
	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		sb.Reset()
		for x := 0; x < width; x++ {
			cell := lipgloss.NewStyle().
				Foreground(hexColor(dst.NRGBAAt(x, y))).
				Background(hexColor(dst.NRGBAAt(x, y+1)))
			sb.WriteString(cell.Render("▀"))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// LoadThumbnail decodes the image at path and renders it
func LoadThumbnail(path string, width int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return RenderThumbnail(img, width), nil
}

func hexColor(c color.NRGBA) lipgloss.Color {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return lipgloss.Color(cf.Hex())
}
