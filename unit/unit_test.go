package unit

import (
	"math/rand"
	"testing"

	"github.com/comperml/pianoprep/pianoroll"
	"github.com/stretchr/testify/assert"
)

func rampRoll(numTicks, numPitches int) pianoroll.Pianoroll {
	roll := pianoroll.New(numTicks, numPitches)
	for t := range roll {
		for p := range roll[t] {
			roll[t][p] = float64(t*numPitches + p + 1)
		}
	}
	return roll
}

func TestChopToUnitMultiple(t *testing.T) {
	m, truncated, err := ChopToUnitMultiple(rampRoll(10, 3), 4)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, m)
	assert.Equal(8, truncated.NumTicks())
	assert.Equal(3, truncated.NumPitches())
}

func TestChopKeepsPrefixIntact(t *testing.T) {
	roll := rampRoll(10, 2)
	_, truncated, err := ChopToUnitMultiple(roll, 4)

	assert := assert.New(t)
	assert.NoError(err)
	for tick := 0; tick < 8; tick++ {
		assert.Equal(roll[tick], truncated[tick])
	}
}

func TestChopShortRollGivesZeroUnits(t *testing.T) {
	m, truncated, err := ChopToUnitMultiple(rampRoll(3, 2), 4)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(0, m)
	assert.Equal(0, truncated.NumTicks())
}

func TestChopRejectsNonPositiveUnitLength(t *testing.T) {
	_, _, err := ChopToUnitMultiple(rampRoll(4, 2), 0)

	var re pianoroll.RangeError
	assert.ErrorAs(t, err, &re)
}

func TestChopDoesNotAliasInput(t *testing.T) {
	roll := rampRoll(4, 2)
	_, truncated, err := ChopToUnitMultiple(roll, 2)
	assert.NoError(t, err)

	truncated[0][0] = -1
	assert.Equal(t, float64(1), roll[0][0])
}

func TestSplitAtPartitionIsComplementary(t *testing.T) {
	roll := rampRoll(2, 4)
	left, right, err := SplitAtPartition(roll, 2, 0)

	assert := assert.New(t)
	assert.NoError(err)
	for tick := 0; tick < 2; tick++ {
		for p := 0; p < 4; p++ {
			if p < 2 {
				assert.Equal(roll[tick][p], left[tick][p])
				assert.Zero(right[tick][p])
			} else {
				assert.Zero(left[tick][p])
				assert.Equal(roll[tick][p], right[tick][p])
			}
			assert.Equal(roll[tick][p], left[tick][p]+right[tick][p])
		}
	}
}

func TestSplitAtPartitionRespectsMinPitch(t *testing.T) {
	// Band starts at MIDI pitch 21; partition at 23 means index 2.
	roll := rampRoll(1, 4)
	left, _, err := SplitAtPartition(roll, 23, 21)

	assert := assert.New(t)
	assert.NoError(err)
	assert.NotZero(left[0][1])
	assert.Zero(left[0][2])
}

func TestSplitAtPartitionRejectsOutOfBand(t *testing.T) {
	var re pianoroll.RangeError

	_, _, err := SplitAtPartition(rampRoll(1, 4), 20, 21)
	assert.ErrorAs(t, err, &re)

	_, _, err = SplitAtPartition(rampRoll(1, 4), 26, 21)
	assert.ErrorAs(t, err, &re)
}

func TestShuffleLeftRightKeepsPairsTogether(t *testing.T) {
	var left, right []Unit
	for i := 0; i < 32; i++ {
		l := pianoroll.New(1, 1)
		l[0][0] = float64(i)
		r := pianoroll.New(1, 1)
		r[0][0] = float64(-i - 1)
		left = append(left, l)
		right = append(right, r)
	}

	rng := rand.New(rand.NewSource(1))
	input, comp, err := ShuffleLeftRight(left, right, rng)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(input, 32)
	assert.Len(comp, 32)
	for i := range left {
		// Each index holds the original pair, possibly swapped.
		a, b := input[i][0][0], comp[i][0][0]
		l, r := left[i][0][0], right[i][0][0]
		if a == l {
			assert.Equal(r, b)
		} else {
			assert.Equal(r, a)
			assert.Equal(l, b)
		}
	}
}

func TestShuffleLeftRightSwapRateNearHalf(t *testing.T) {
	const n = 4000
	left := make([]Unit, n)
	right := make([]Unit, n)
	for i := 0; i < n; i++ {
		l := pianoroll.New(1, 1)
		l[0][0] = 1
		r := pianoroll.New(1, 1)
		r[0][0] = 2
		left[i], right[i] = l, r
	}

	rng := rand.New(rand.NewSource(42))
	input, _, err := ShuffleLeftRight(left, right, rng)
	assert.NoError(t, err)

	var swaps int
	for i := range input {
		if input[i][0][0] == 2 {
			swaps++
		}
	}
	rate := float64(swaps) / n
	assert.InDelta(t, 0.5, rate, 0.05)
}

func TestShuffleLeftRightIsDeterministicPerSeed(t *testing.T) {
	left := make([]Unit, 16)
	right := make([]Unit, 16)
	for i := range left {
		l := pianoroll.New(1, 1)
		l[0][0] = 1
		r := pianoroll.New(1, 1)
		r[0][0] = 2
		left[i], right[i] = l, r
	}

	first, _, err := ShuffleLeftRight(left, right, rand.New(rand.NewSource(7)))
	assert.NoError(t, err)
	second, _, err := ShuffleLeftRight(left, right, rand.New(rand.NewSource(7)))
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestShuffleLeftRightRejectsLengthMismatch(t *testing.T) {
	_, _, err := ShuffleLeftRight(make([]Unit, 2), make([]Unit, 3), rand.New(rand.NewSource(0)))

	var se pianoroll.ShapeError
	assert.ErrorAs(t, err, &se)
}

func TestCreateUnitsShapes(t *testing.T) {
	roll := rampRoll(10, 4)
	input, comp, err := CreateUnits(roll, 4, 4, 2, 0, 0, rand.New(rand.NewSource(3)))

	assert := assert.New(t)
	assert.NoError(err)
	// Every ramp unit has positive mean, so nothing is filtered.
	assert.Equal(2, len(input))
	assert.Equal(2, len(comp))
	for i := range input {
		assert.Equal(4, input[i].NumTicks())
		assert.Equal(4, input[i].NumPitches())
		assert.Equal(4, comp[i].NumTicks())
		assert.Equal(4, comp[i].NumPitches())
	}
}

func TestCreateUnitsFilterThreshold(t *testing.T) {
	// Unit 0 is silent, unit 1 is loud everywhere.
	roll := pianoroll.New(8, 2)
	for tick := 4; tick < 8; tick++ {
		roll[tick][0] = 50
		roll[tick][1] = 50
	}

	input, comp, err := CreateUnits(roll, 2, 4, 1, 0, 0.5, rand.New(rand.NewSource(9)))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(input, 1)
	assert.Len(comp, 1)
	assert.Greater(input[0].Mean(), 0.5)
}

func TestCreateUnitsFilterKeepsPairsAligned(t *testing.T) {
	// Left register carries all the energy so filtering depends on which
	// side the coin flip assigned to input.
	roll := pianoroll.New(12, 2)
	for tick := range roll {
		roll[tick][0] = 40
	}

	input, comp, err := CreateUnits(roll, 2, 4, 1, 0, 1.0, rand.New(rand.NewSource(11)))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(len(input), len(comp))
	for i := range input {
		assert.Greater(input[i].Mean(), 1.0)
		// The partner must be the complementary (silent) half.
		assert.Zero(comp[i].Mean())
	}
}

func TestCreateUnitsShortSongGivesNoUnits(t *testing.T) {
	input, comp, err := CreateUnits(rampRoll(3, 2), 2, 4, 1, 0, 0, rand.New(rand.NewSource(0)))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(input)
	assert.Empty(comp)
}

func TestCreateUnitsRejectsWrongPitchCount(t *testing.T) {
	_, _, err := CreateUnits(rampRoll(8, 3), 2, 4, 1, 0, 0, rand.New(rand.NewSource(0)))

	var se pianoroll.ShapeError
	assert.ErrorAs(t, err, &se)
}

func TestCreateUnitsRejectsBadPartition(t *testing.T) {
	_, _, err := CreateUnits(rampRoll(8, 2), 2, 4, 5, 0, 0, rand.New(rand.NewSource(0)))

	var re pianoroll.RangeError
	assert.ErrorAs(t, err, &re)
}
