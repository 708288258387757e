package notify

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChartPNG(t *testing.T) {
	b, err := RenderChart([]float64{100, 101, 99.5, 103, 106})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, chartW, img.Bounds().Dx())
	assert.Equal(t, chartH, img.Bounds().Dy())

	// последняя точка на максимуме → у верхнего отступа, зелёным
	r, g, _, _ := img.At(chartW-chartPad, chartPad).RGBA()
	assert.Equal(t, uint32(upColor.R)*0x101, r)
	assert.Equal(t, uint32(upColor.G)*0x101, g)
}

func TestRenderChartFlatAndBad(t *testing.T) {
	_, err := RenderChart([]float64{5, 5, 5})
	assert.NoError(t, err)

	_, err = RenderChart([]float64{1})
	assert.Error(t, err)

	_, err = RenderChart([]float64{1, math.NaN()})
	assert.Error(t, err)
}
