package unit

import (
	"fmt"
	"math/rand"

	"github.com/comperml/pianoprep/pianoroll"
)

// A Unit is one fixed-length training example: a [ticksPerUnit][numPitches]
// slice of a song's pianoroll.
type Unit = pianoroll.Pianoroll

// ChopToUnitMultiple truncates a roll to the largest prefix evenly divisible
// into units of ticksPerUnit ticks. Returns M (the unit count, possibly 0)
// and the truncated roll, which shares no storage with the input.
func ChopToUnitMultiple(roll pianoroll.Pianoroll, ticksPerUnit int) (int, pianoroll.Pianoroll, error) {
	if ticksPerUnit <= 0 {
		return 0, nil, pianoroll.RangeError{Param: "ticksPerUnit", Value: ticksPerUnit, Min: 1, Max: roll.NumTicks()}
	}
	m := roll.NumTicks() / ticksPerUnit
	return m, roll[:m*ticksPerUnit].Clone(), nil
}

// SplitAtPartition splits a roll into a low-register copy (everything at or
// above partitionNote zeroed) and the complementary high-register copy.
// partitionNote is an absolute MIDI pitch; minPitch says which MIDI pitch
// the roll's index 0 corresponds to.
func SplitAtPartition(roll pianoroll.Pianoroll, partitionNote, minPitch int) (pianoroll.Pianoroll, pianoroll.Pianoroll, error) {
	numPitches := roll.NumPitches()
	idx := partitionNote - minPitch
	if idx < 0 || idx > numPitches {
		return nil, nil, pianoroll.RangeError{Param: "partitionNote", Value: partitionNote, Min: minPitch, Max: minPitch + numPitches}
	}
	left := roll.Clone()
	right := roll.Clone()
	for t := range roll {
		for p := idx; p < numPitches; p++ {
			left[t][p] = 0
		}
		for p := 0; p < idx; p++ {
			right[t][p] = 0
		}
	}
	return left, right, nil
}

// reshape groups m*ticksPerUnit consecutive ticks into m units in original
// time order. The units are views into roll.
func reshape(roll pianoroll.Pianoroll, m, ticksPerUnit int) []Unit {
	units := make([]Unit, m)
	for i := 0; i < m; i++ {
		units[i] = roll[i*ticksPerUnit : (i+1)*ticksPerUnit]
	}
	return units
}

// ShuffleLeftRight draws one coin flip per unit index and swaps that pair
// when it lands true, so the model sees both sides of the accompaniment:
//
//	[a1,a2,a3,a4]  ->  [a1,b2,b3,a4]
//	[b1,b2,b3,b4]      [b1,a2,a3,b4]
//
// Index order is always preserved; this is a per-index exchange, not a
// permutation.
func ShuffleLeftRight(left, right []Unit, rng *rand.Rand) ([]Unit, []Unit, error) {
	if len(left) != len(right) {
		return nil, nil, pianoroll.ShapeError{
			Reason: fmt.Sprintf("left/right unit counts differ: %v vs %v", len(left), len(right)),
		}
	}
	input := make([]Unit, len(left))
	comp := make([]Unit, len(right))
	for i := range left {
		if rng.Intn(2) == 1 {
			input[i], comp[i] = right[i], left[i]
		} else {
			input[i], comp[i] = left[i], right[i]
		}
	}
	return input, comp, nil
}

// CreateUnits runs the whole segmentation pipeline on one song: truncate to
// a unit multiple, split at the partition note, group into units, randomly
// exchange left/right per unit, then drop near-silent pairs. A pair is kept
// iff the mean intensity of its input unit is strictly greater than
// filterThreshold; the same mask applies to both outputs so they stay
// paired.
func CreateUnits(roll pianoroll.Pianoroll, numPitches, ticksPerUnit, partitionNote, minPitch int, filterThreshold float64, rng *rand.Rand) ([]Unit, []Unit, error) {
	if roll.NumTicks() > 0 && roll.NumPitches() != numPitches {
		return nil, nil, pianoroll.ShapeError{
			Reason: fmt.Sprintf("create units wants %v pitches, got %v", numPitches, roll.NumPitches()),
		}
	}
	if idx := partitionNote - minPitch; idx < 0 || idx > numPitches {
		return nil, nil, pianoroll.RangeError{Param: "partitionNote", Value: partitionNote, Min: minPitch, Max: minPitch + numPitches}
	}

	m, truncated, err := ChopToUnitMultiple(roll, ticksPerUnit)
	if err != nil {
		return nil, nil, err
	}
	if m == 0 {
		return []Unit{}, []Unit{}, nil
	}

	left, right, err := SplitAtPartition(truncated, partitionNote, minPitch)
	if err != nil {
		return nil, nil, err
	}

	input, comp, err := ShuffleLeftRight(reshape(left, m, ticksPerUnit), reshape(right, m, ticksPerUnit), rng)
	if err != nil {
		return nil, nil, err
	}

	// Filter out near-empty units, keeping the pairing intact.
	keptInput := make([]Unit, 0, m)
	keptComp := make([]Unit, 0, m)
	for i := range input {
		if input[i].Mean() > filterThreshold {
			keptInput = append(keptInput, input[i])
			keptComp = append(keptComp, comp[i])
		}
	}
	return keptInput, keptComp, nil
}
