package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/pianoroll"
	"github.com/comperml/pianoprep/quantize"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Read parses a standard MIDI file from disk.
func Read(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("could not read midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("could not parse midi file: %w", err)
	}
	return res, nil
}

type reducedEvent struct {
	tick      int
	isNoteOff bool
	note      uint8
	velocity  uint8
}

// ToPianoroll rasterizes every note on/off in the file onto a full-width
// (128 pitch) time-major roll at beatResolution ticks per beat, merging all
// tracks. Each sounding note fills its cells with its note-on velocity.
// A note never released runs to the end of the roll.
func ToPianoroll(s *smf.SMF, beatResolution int) (pianoroll.Pianoroll, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported SMF time format: %v", s.TimeFormat)
	}
	resolution := int64(mt.Resolution())

	var reduced []reducedEvent
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			tick := int(absTicks * int64(beatResolution) / resolution)
			var channel uint8
			var key uint8
			var velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				reduced = append(reduced, reducedEvent{tick: tick, note: key, velocity: velocity})
			case event.Message.GetNoteEnd(&channel, &key):
				reduced = append(reduced, reducedEvent{tick: tick, isNoteOff: true, note: key})
			}
		}
	}

	// prioritize smaller ticks then note off
	sort.SliceStable(reduced, func(i, j int) bool {
		if reduced[i].tick != reduced[j].tick {
			return reduced[i].tick < reduced[j].tick
		}
		return reduced[i].isNoteOff && !reduced[j].isNoteOff
	})

	var numTicks int
	for _, evt := range reduced {
		if evt.isNoteOff {
			if evt.tick > numTicks {
				numTicks = evt.tick
			}
		} else if evt.tick+1 > numTicks {
			numTicks = evt.tick + 1
		}
	}

	roll := pianoroll.New(numTicks, constants.NumMidiPitches)
	type heldNote struct {
		start    int
		velocity uint8
	}
	held := make(map[uint8]heldNote)
	fill := func(note uint8, from, to int, velocity uint8) {
		for t := from; t < to; t++ {
			roll[t][note] = float64(velocity)
		}
	}
	for _, evt := range reduced {
		if evt.isNoteOff {
			if h, ok := held[evt.note]; ok {
				fill(evt.note, h.start, evt.tick, h.velocity)
				delete(held, evt.note)
			}
		} else {
			// re-struck note ends the previous one
			if h, ok := held[evt.note]; ok {
				fill(evt.note, h.start, evt.tick, h.velocity)
			}
			held[evt.note] = heldNote{start: evt.tick, velocity: evt.velocity}
		}
	}
	for note, h := range held {
		fill(note, h.start, numTicks, h.velocity)
	}
	return roll, nil
}

// EventsToSMF lays quantized event buckets onto a single track, one tick of
// delta time between buckets, all on the accompaniment channel.
func EventsToSMF(events model.EventSequence, bpm float64, ticksPerBeat int) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))
	var delta uint32
	for _, bucket := range events {
		for _, ev := range bucket {
			var msg midi.Message
			if ev.Kind == model.NoteOff {
				msg = midi.NoteOff(constants.CompChannel, ev.Pitch)
			} else {
				msg = midi.NoteOn(constants.CompChannel, ev.Pitch, ev.Velocity)
			}
			track.Add(delta, msg)
			delta = 0
		}
		delta++
	}
	track.Close(0)
	res.Tracks = append(res.Tracks, track)
	return &res
}

// PianorollToSMF quantizes a roll and wraps the events in a playable file.
// A cropped roll is padded back out to the full pitch range first.
func PianorollToSMF(roll pianoroll.Pianoroll, minPitch, maxPitch int, bpm float64) (*smf.SMF, error) {
	if minPitch != 0 || maxPitch != 127 {
		padded, err := pianoroll.Pad(roll, minPitch, maxPitch)
		if err != nil {
			return nil, err
		}
		roll = padded
	}
	events, err := quantize.PianorollToEvents(roll, 0, 127)
	if err != nil {
		return nil, err
	}
	return EventsToSMF(events, bpm, constants.BeatResolution), nil
}

// WriteSMF serializes a file to disk.
func WriteSMF(s *smf.SMF, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create midi file: %w", err)
	}
	defer f.Close()
	if _, err := s.WriteTo(f); err != nil {
		return fmt.Errorf("could not write midi file: %w", err)
	}
	return nil
}

// WritePianoroll quantizes a roll and writes it to a playable MIDI file.
func WritePianoroll(roll pianoroll.Pianoroll, minPitch, maxPitch int, bpm float64, path string) error {
	s, err := PianorollToSMF(roll, minPitch, maxPitch, bpm)
	if err != nil {
		return err
	}
	return WriteSMF(s, path)
}
