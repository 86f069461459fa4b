package quantize

import (
	"testing"

	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/pianoroll"
	"github.com/stretchr/testify/assert"
)

func singlePitchRoll(values ...float64) pianoroll.Pianoroll {
	roll := make(pianoroll.Pianoroll, len(values))
	for t, v := range values {
		roll[t] = []float64{v}
	}
	return roll
}

func TestSingleRunOnPitch60(t *testing.T) {
	// 8 ticks on pitch 60: [0,0,5,5,5,0,0,0]
	roll := singlePitchRoll(0, 0, 5, 5, 5, 0, 0, 0)
	events, err := PianorollToEvents(roll, 60, 60)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 8)
	assert.Equal([]model.Event{{Tick: 2, Kind: model.NoteOn, Pitch: 60, Velocity: 5}}, events[2])
	assert.Equal([]model.Event{{Tick: 5, Kind: model.NoteOff, Pitch: 60, Velocity: 0}}, events[5])
	for _, tick := range []int{0, 1, 3, 4, 6, 7} {
		assert.Empty(events[tick])
	}
}

func TestRunToFinalTickHasNoNoteOff(t *testing.T) {
	roll := singlePitchRoll(0, 7, 7)
	events, err := PianorollToEvents(roll, 40, 40)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.Event{{Tick: 1, Kind: model.NoteOn, Pitch: 40, Velocity: 7}}, events[1])
	assert.Empty(events[0])
	assert.Empty(events[2])
}

func TestVelocityIsTruncatedMean(t *testing.T) {
	// Values 5 and 6 merge into one note: mean 5.5 truncates to 5.
	roll := singlePitchRoll(5, 6, 0)
	events, err := PianorollToEvents(roll, 0, 0)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint8(5), events[0][0].Velocity)
	assert.Equal(model.NoteOff, events[2][0].Kind)
}

func TestFractionalValuesTruncateBeforeAveraging(t *testing.T) {
	// 1.9 and 0.9 truncate to 1 and 0 first, so the mean is 0.
	roll := singlePitchRoll(1.9, 0.9)
	events, err := PianorollToEvents(roll, 0, 0)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint8(0), events[0][0].Velocity)
}

func TestSeparateRunsMakeSeparateNotes(t *testing.T) {
	roll := singlePitchRoll(3, 0, 9, 9, 0)
	events, err := PianorollToEvents(roll, 10, 10)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(model.NoteOn, events[0][0].Kind)
	assert.Equal(uint8(3), events[0][0].Velocity)
	assert.Equal(model.NoteOff, events[1][0].Kind)
	assert.Equal(model.NoteOn, events[2][0].Kind)
	assert.Equal(uint8(9), events[2][0].Velocity)
	assert.Equal(model.NoteOff, events[4][0].Kind)
}

func TestEventsWithinTickAscendByPitch(t *testing.T) {
	roll := pianoroll.Pianoroll{
		{8, 0, 8},
		{0, 0, 0},
	}
	events, err := PianorollToEvents(roll, 60, 62)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events[0], 2)
	assert.Equal(uint8(60), events[0][0].Pitch)
	assert.Equal(uint8(62), events[0][1].Pitch)
	assert.Len(events[1], 2)
	assert.Equal(uint8(60), events[1][0].Pitch)
	assert.Equal(uint8(62), events[1][1].Pitch)
}

func TestRejectsMismatchedPitchAxis(t *testing.T) {
	roll := pianoroll.New(4, 10)
	_, err := PianorollToEvents(roll, 0, 127)

	var se pianoroll.ShapeError
	assert.ErrorAs(t, err, &se)
}

func TestRejectsBadPitchBounds(t *testing.T) {
	var re pianoroll.RangeError

	_, err := PianorollToEvents(pianoroll.New(1, 1), 60, 59)
	assert.ErrorAs(t, err, &re)

	_, err = PianorollToEvents(pianoroll.New(1, 129), -1, 127)
	assert.ErrorAs(t, err, &re)
}

func TestVelocityClampsAt127(t *testing.T) {
	roll := singlePitchRoll(200, 0)
	events, err := PianorollToEvents(roll, 0, 0)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint8(127), events[0][0].Velocity)
}
