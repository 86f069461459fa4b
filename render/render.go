package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/comperml/pianoprep/pianoroll"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options controls how a pianoroll is drawn. MinPitch/MaxPitch declare the
// MIDI band the roll's pitch axis covers and must match its width.
type Options struct {
	MinPitch int
	MaxPitch int

	// BeatResolution, when non-zero, draws a vertical gridline and beat
	// number every this many ticks.
	BeatResolution int

	// CellWidth/CellHeight are the pixel size of one tick-by-pitch cell.
	// Zero means the defaults (2x4).
	CellWidth  int
	CellHeight int

	// VMax is the intensity that maps to full color saturation. Zero means
	// scale to the loudest cell in the roll.
	VMax float64
}

const leftMargin = 30
const bottomMargin = 16

func (o Options) cellSize() (int, int) {
	w, h := o.CellWidth, o.CellHeight
	if w <= 0 {
		w = 2
	}
	if h <= 0 {
		h = 4
	}
	return w, h
}

// Image draws a roll with pitch 0 at the bottom, octave labels down the
// left edge and an optional beat grid along the bottom.
func Image(roll pianoroll.Pianoroll, opts Options) (*image.RGBA, error) {
	numPitches := opts.MaxPitch - opts.MinPitch + 1
	if opts.MinPitch < 0 || opts.MaxPitch > 127 || opts.MinPitch > opts.MaxPitch {
		return nil, pianoroll.RangeError{Param: "minPitch", Value: opts.MinPitch, Min: 0, Max: opts.MaxPitch}
	}
	if roll.NumTicks() > 0 && roll.NumPitches() != numPitches {
		return nil, pianoroll.ShapeError{
			Reason: fmt.Sprintf("render wants %v pitches for [%v,%v], got %v",
				numPitches, opts.MinPitch, opts.MaxPitch, roll.NumPitches()),
		}
	}

	vmax := opts.VMax
	if vmax <= 0 {
		for _, row := range roll {
			for _, v := range row {
				if v > vmax {
					vmax = v
				}
			}
		}
		if vmax == 0 {
			vmax = 1
		}
	}

	cellW, cellH := opts.cellSize()
	plotW := roll.NumTicks() * cellW
	plotH := numPitches * cellH
	img := image.NewRGBA(image.Rect(0, 0, leftMargin+plotW, plotH+bottomMargin))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// note cells, origin lower
	for t, row := range roll {
		for p, v := range row {
			if v == 0 {
				continue
			}
			intensity := v / vmax
			if intensity > 1 {
				intensity = 1
			}
			c := blend(colornames.Steelblue, intensity)
			x0 := leftMargin + t*cellW
			y0 := (numPitches - 1 - p) * cellH
			fillRect(img, x0, y0, cellW, cellH, c)
		}
	}

	drawOctaveMarks(img, opts, numPitches, plotW, cellH)
	if opts.BeatResolution > 0 {
		drawBeatGrid(img, opts, roll.NumTicks(), plotH, cellW)
	}
	return img, nil
}

func drawOctaveMarks(img *image.RGBA, opts Options, numPitches, plotW, cellH int) {
	for pitch := opts.MinPitch; pitch <= opts.MaxPitch; pitch++ {
		if pitch%12 != 0 {
			continue
		}
		p := pitch - opts.MinPitch
		y := (numPitches - 1 - p) * cellH
		for x := leftMargin; x < leftMargin+plotW; x++ {
			img.Set(x, y+cellH-1, colornames.Lightgray)
		}
		label := fmt.Sprintf("C%v", pitch/12-1)
		drawLabel(img, 2, y+cellH, label)
	}
}

func drawBeatGrid(img *image.RGBA, opts Options, numTicks, plotH, cellW int) {
	numBeats := numTicks / opts.BeatResolution
	for beat := 0; beat < numBeats; beat++ {
		x := leftMargin + beat*opts.BeatResolution*cellW
		for y := 0; y < plotH; y++ {
			img.Set(x, y, colornames.Lightgray)
		}
		drawLabel(img, x+1, plotH+bottomMargin-3, fmt.Sprintf("%v", beat+1))
	}
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	for x := x0; x < x0+w; x++ {
		for y := y0; y < y0+h; y++ {
			img.Set(x, y, c)
		}
	}
}

func blend(c color.RGBA, intensity float64) color.RGBA {
	// fade from white toward the full note color
	mix := func(channel uint8) uint8 {
		return uint8(255 - intensity*float64(255-channel))
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 255}
}

// FourUnits composites the input/comp unit pair and its successor pair into
// a titled 2x2 grid for side-by-side inspection.
func FourUnits(input, inputNext, comp, compNext pianoroll.Pianoroll, opts Options) (*image.RGBA, error) {
	panels := []struct {
		title string
		roll  pianoroll.Pianoroll
	}{
		{"Input", input},
		{"Input next", inputNext},
		{"Comp", comp},
		{"Comp next", compNext},
	}

	const titleHeight = 16
	var imgs []*image.RGBA
	var cellW, cellH int
	for _, panel := range panels {
		img, err := Image(panel.roll, opts)
		if err != nil {
			return nil, err
		}
		if img.Bounds().Dx() > cellW {
			cellW = img.Bounds().Dx()
		}
		if img.Bounds().Dy() > cellH {
			cellH = img.Bounds().Dy()
		}
		imgs = append(imgs, img)
	}

	grid := image.NewRGBA(image.Rect(0, 0, cellW*2, (cellH+titleHeight)*2))
	draw.Draw(grid, grid.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, img := range imgs {
		x0 := (i % 2) * cellW
		y0 := (i / 2) * (cellH + titleHeight)
		drawLabel(grid, x0+leftMargin, y0+12, panels[i].title)
		r := img.Bounds().Add(image.Point{X: x0, Y: y0 + titleHeight})
		draw.Draw(grid, r, img, img.Bounds().Min, draw.Src)
	}
	return grid, nil
}

// WritePNG renders a roll and encodes it to a PNG file.
func WritePNG(roll pianoroll.Pianoroll, path string, opts Options) error {
	img, err := Image(roll, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create png: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}
	return nil
}
