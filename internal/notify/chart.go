package notify

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
)

const (
	chartW   = 640
	chartH   = 320
	chartPad = 24
)

var (
	bgColor   = color.RGBA{R: 0x14, G: 0x17, B: 0x1c, A: 0xff}
	gridColor = color.RGBA{R: 0x2a, G: 0x2f, B: 0x38, A: 0xff}
	upColor   = color.RGBA{R: 0x26, G: 0xa6, B: 0x9a, A: 0xff}
	downColor = color.RGBA{R: 0xef, G: 0x53, B: 0x50, A: 0xff}
)

// RenderChart рисует линию закрытий в PNG. Цвет по итогу окна: рост зелёный, падение красное.
func RenderChart(closes []float64) ([]byte, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("chart needs at least 2 closes, got %d", len(closes))
	}

	lo, hi := closes[0], closes[0]
	for _, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("chart: non-finite close")
		}
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	if hi == lo {
		hi, lo = hi+1, lo-1
	}

	img := image.NewRGBA(image.Rect(0, 0, chartW, chartH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bgColor}, image.Point{}, draw.Src)

	for i := 0; i <= 4; i++ {
		y := chartPad + i*(chartH-2*chartPad)/4
		line(img, chartPad, y, chartW-chartPad, y, gridColor)
	}

	col := upColor
	if closes[len(closes)-1] < closes[0] {
		col = downColor
	}

	px := func(i int) int {
		return chartPad + i*(chartW-2*chartPad)/(len(closes)-1)
	}
	py := func(v float64) int {
		return chartH - chartPad - int(math.Round((v-lo)/(hi-lo)*float64(chartH-2*chartPad)))
	}

	for i := 1; i < len(closes); i++ {
		x0, y0 := px(i-1), py(closes[i-1])
		x1, y1 := px(i), py(closes[i])
		// толщина 3px
		for d := -1; d <= 1; d++ {
			line(img, x0, y0+d, x1, y1+d, col)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// line: Брезенхем.
func line(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
