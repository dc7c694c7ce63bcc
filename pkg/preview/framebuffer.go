// Package preview shows a converted model as a spinning wireframe in
// the terminal, so a conversion can be sanity checked without loading
// the output in a browser.
package preview

import (
	"fmt"
	"image/color"
	"strings"
)

// Framebuffer is a pixel grid rendered with half-block characters, so
// its height is twice the terminal row count.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets the pixel at (x, y), ignoring out-of-bounds writes.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the pixel at (x, y), black when out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Render builds the ANSI frame: each terminal cell shows two vertically
// stacked pixels via the upper half block, foreground for the top pixel
// and background for the bottom one.
func (fb *Framebuffer) Render() string {
	var sb strings.Builder
	sb.Grow(fb.Width * fb.Height * 12)

	rows := fb.Height / 2
	for row := range rows {
		sb.WriteString(fmt.Sprintf("\x1b[%d;1H", row+1))
		for col := range fb.Width {
			top := fb.GetPixel(col, row*2)
			bot := fb.GetPixel(col, row*2+1)
			sb.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B))
		}
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
