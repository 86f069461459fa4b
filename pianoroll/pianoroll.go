package pianoroll

import "fmt"

// Pianoroll is a time-major intensity matrix: roll[tick][pitchIndex].
// Pitch index p corresponds to MIDI pitch minPitch+p for whatever band
// the caller is working in. Values are non-negative velocities, zero is
// silence. Every function here returns a fresh matrix and leaves its
// input untouched.
type Pianoroll [][]float64

func New(numTicks, numPitches int) Pianoroll {
	roll := make(Pianoroll, numTicks)
	for t := range roll {
		roll[t] = make([]float64, numPitches)
	}
	return roll
}

func (r Pianoroll) NumTicks() int {
	return len(r)
}

func (r Pianoroll) NumPitches() int {
	if len(r) == 0 {
		return 0
	}
	return len(r[0])
}

func (r Pianoroll) Clone() Pianoroll {
	out := make(Pianoroll, len(r))
	for t, row := range r {
		out[t] = append([]float64(nil), row...)
	}
	return out
}

// Mean averages every cell of the roll. An empty roll has mean 0.
func (r Pianoroll) Mean() float64 {
	var sum float64
	var n int
	for _, row := range r {
		for _, v := range row {
			sum += v
		}
		n += len(row)
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ShapeError reports a matrix whose dimensions violate a precondition.
// It is always a caller bug, never recovered from.
type ShapeError struct {
	Reason string
}

func (e ShapeError) Error() string {
	return "pianoroll shape mismatch: " + e.Reason
}

// RangeError reports a configuration value outside its valid bounds.
type RangeError struct {
	Param string
	Value int
	Min   int
	Max   int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("%v=%v outside valid range [%v,%v]", e.Param, e.Value, e.Min, e.Max)
}

func checkPitchBounds(minPitch, maxPitch int) error {
	if minPitch < 0 || minPitch > 127 {
		return RangeError{Param: "minPitch", Value: minPitch, Min: 0, Max: 127}
	}
	if maxPitch < 0 || maxPitch > 127 {
		return RangeError{Param: "maxPitch", Value: maxPitch, Min: 0, Max: 127}
	}
	if minPitch > maxPitch {
		return RangeError{Param: "minPitch", Value: minPitch, Min: 0, Max: maxPitch}
	}
	return nil
}

// Crop takes a full-width roll (128 pitches) and keeps only the band
// minPitch..maxPitch inclusive.
func Crop(roll Pianoroll, minPitch, maxPitch int) (Pianoroll, error) {
	if err := checkPitchBounds(minPitch, maxPitch); err != nil {
		return nil, err
	}
	if roll.NumPitches() != 128 {
		return nil, ShapeError{Reason: fmt.Sprintf("crop wants 128 pitches, got %v", roll.NumPitches())}
	}
	out := make(Pianoroll, len(roll))
	for t, row := range roll {
		out[t] = append([]float64(nil), row[minPitch:maxPitch+1]...)
	}
	return out, nil
}

// Pad zero-fills a cropped roll back out to the full 128 pitches, placing
// the band so that index 0 lands on MIDI pitch minPitch.
func Pad(roll Pianoroll, minPitch, maxPitch int) (Pianoroll, error) {
	if err := checkPitchBounds(minPitch, maxPitch); err != nil {
		return nil, err
	}
	want := maxPitch - minPitch + 1
	if roll.NumPitches() != want {
		return nil, ShapeError{Reason: fmt.Sprintf("pad wants %v pitches, got %v", want, roll.NumPitches())}
	}
	out := New(len(roll), 128)
	for t, row := range roll {
		copy(out[t][minPitch:], row)
	}
	return out, nil
}

// Transposed shifts the whole roll up (positive) or down (negative) by
// numSemitones, zero-filling the vacated columns. Notes shifted past the
// edge of the pitch axis are dropped.
func Transposed(roll Pianoroll, numSemitones int) (Pianoroll, error) {
	numPitches := roll.NumPitches()
	abs := numSemitones
	if abs < 0 {
		abs = -abs
	}
	if abs > numPitches {
		return nil, RangeError{Param: "numSemitones", Value: numSemitones, Min: -numPitches, Max: numPitches}
	}
	out := New(len(roll), numPitches)
	for t, row := range roll {
		switch {
		case numSemitones > 0:
			copy(out[t][numSemitones:], row[:numPitches-numSemitones])
		case numSemitones < 0:
			copy(out[t], row[abs:])
		default:
			copy(out[t], row)
		}
	}
	return out, nil
}
