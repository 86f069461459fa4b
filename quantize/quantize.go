package quantize

import (
	"fmt"

	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/pianoroll"
)

// PianorollToEvents quantizes a time-major pianoroll into per-tick event
// buckets. Adjacent nonzero ticks of the same pitch merge into a single
// note whose velocity is the truncated mean of the run. A note still
// sounding at the final tick gets no note-off. Within a tick, events
// appear in ascending pitch order.
//
// The roll's pitch axis must span exactly maxPitch-minPitch+1 pitches,
// with index 0 mapping to MIDI pitch minPitch.
func PianorollToEvents(roll pianoroll.Pianoroll, minPitch, maxPitch int) (model.EventSequence, error) {
	if minPitch < 0 || minPitch > 127 {
		return nil, pianoroll.RangeError{Param: "minPitch", Value: minPitch, Min: 0, Max: 127}
	}
	if maxPitch < 0 || maxPitch > 127 {
		return nil, pianoroll.RangeError{Param: "maxPitch", Value: maxPitch, Min: 0, Max: 127}
	}
	if minPitch > maxPitch {
		return nil, pianoroll.RangeError{Param: "minPitch", Value: minPitch, Min: 0, Max: maxPitch}
	}
	numPitches := maxPitch - minPitch + 1
	if roll.NumPitches() != numPitches {
		return nil, pianoroll.ShapeError{
			Reason: fmt.Sprintf("quantize wants %v pitches for [%v,%v], got %v",
				numPitches, minPitch, maxPitch, roll.NumPitches()),
		}
	}

	numTicks := roll.NumTicks()
	events := make(model.EventSequence, numTicks)

	for p := 0; p < numPitches; p++ {
		pitch := uint8(minPitch + p)

		// Scan the channel as a run-length sequence. The t == numTicks
		// iteration acts as an off sentinel so the last run always closes.
		runStart := -1
		var sum int
		for t := 0; t <= numTicks; t++ {
			on := t < numTicks && roll[t][p] != 0
			if on {
				if runStart < 0 {
					runStart = t
					sum = 0
				}
				sum += int(roll[t][p])
				continue
			}
			if runStart < 0 {
				continue
			}
			velocity := sum / (t - runStart)
			if velocity > 127 {
				velocity = 127
			}
			events[runStart] = append(events[runStart], model.Event{
				Tick:     runStart,
				Kind:     model.NoteOn,
				Pitch:    pitch,
				Velocity: uint8(velocity),
			})
			if t < numTicks {
				events[t] = append(events[t], model.Event{
					Tick:  t,
					Kind:  model.NoteOff,
					Pitch: pitch,
				})
			}
			runStart = -1
		}
	}
	return events, nil
}
