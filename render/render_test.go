package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/comperml/pianoprep/pianoroll"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/colornames"
)

func TestImageDimensions(t *testing.T) {
	roll := pianoroll.New(10, 12)
	img, err := Image(roll, Options{MinPitch: 48, MaxPitch: 59, CellWidth: 2, CellHeight: 4})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(leftMargin+10*2, img.Bounds().Dx())
	assert.Equal(12*4+bottomMargin, img.Bounds().Dy())
}

func TestImageDrawsNoteAtLowerOrigin(t *testing.T) {
	// Single full-intensity note on the lowest pitch at tick 0; it must
	// land at the bottom of the plot area.
	roll := pianoroll.New(2, 2)
	roll[0][0] = 1

	img, err := Image(roll, Options{MinPitch: 1, MaxPitch: 2, CellWidth: 1, CellHeight: 1, VMax: 1})
	assert.NoError(t, err)

	assert.Equal(t, colornames.Steelblue, img.RGBAAt(leftMargin, 1))
}

func TestImageRejectsBandMismatch(t *testing.T) {
	roll := pianoroll.New(4, 10)
	_, err := Image(roll, Options{MinPitch: 0, MaxPitch: 127})

	var se pianoroll.ShapeError
	assert.ErrorAs(t, err, &se)
}

func TestImageRejectsBadBand(t *testing.T) {
	roll := pianoroll.New(4, 10)
	_, err := Image(roll, Options{MinPitch: 60, MaxPitch: 50})

	var re pianoroll.RangeError
	assert.ErrorAs(t, err, &re)
}

func TestFourUnitsGrid(t *testing.T) {
	unit := pianoroll.New(4, 6)
	unit[1][2] = 80

	img, err := FourUnits(unit, unit, unit, unit, Options{MinPitch: 60, MaxPitch: 65})

	assert := assert.New(t)
	assert.NoError(err)
	single, err := Image(unit, Options{MinPitch: 60, MaxPitch: 65})
	assert.NoError(err)
	assert.Equal(single.Bounds().Dx()*2, img.Bounds().Dx())
}

func TestWritePNG(t *testing.T) {
	roll := pianoroll.New(24, 128)
	roll[0][60] = 100

	path := filepath.Join(t.TempDir(), "roll.png")
	err := WritePNG(roll, path, Options{MinPitch: 0, MaxPitch: 127, BeatResolution: 24})
	assert.NoError(t, err)

	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	assert.NoError(t, err)
	assert.NotZero(t, decoded.Bounds().Dx())
}
