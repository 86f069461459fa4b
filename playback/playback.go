package playback

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/midifile"
	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/pianoroll"
	"github.com/google/uuid"
)

// ExternalToolError reports a missing or failed synthesizer invocation.
// It is surfaced to the caller and never retried.
type ExternalToolError struct {
	Tool string
	Err  error
}

func (e ExternalToolError) Error() string {
	return fmt.Sprintf("external tool %v: %v", e.Tool, e.Err)
}

func (e ExternalToolError) Unwrap() error {
	return e.Err
}

// DefaultTimeout bounds a synth run when the caller's context carries no
// deadline, so an unavailable synth can't hang the pipeline.
const DefaultTimeout = 2 * time.Minute

// TempMidiPath returns a fresh unique path under the system temp dir, so
// concurrent callers never collide.
func TempMidiPath() string {
	return filepath.Join(os.TempDir(), uuid.New().String()+".midi")
}

// PlayFile runs the external synthesizer (SYNTH_PATH, default timidity) on
// a MIDI file and waits for it to exit. A synth missing from PATH is
// reported before anything is spawned.
func PlayFile(ctx context.Context, midiPath string) error {
	synth := constants.GetSynthCommand()
	resolved, err := exec.LookPath(synth)
	if err != nil {
		return ExternalToolError{Tool: synth, Err: err}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, resolved, midiPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return ExternalToolError{Tool: synth, Err: err}
	}
	return nil
}

// PlayPianoroll writes the roll to a unique temp file, plays it, and cleans
// up. A cropped roll is padded back out to the full pitch range.
func PlayPianoroll(ctx context.Context, roll pianoroll.Pianoroll, minPitch, maxPitch int, bpm float64) error {
	path := TempMidiPath()
	defer os.Remove(path)

	if err := midifile.WritePianoroll(roll, minPitch, maxPitch, bpm, path); err != nil {
		return err
	}
	return PlayFile(ctx, path)
}

// PlayEvents plays an already-quantized event sequence.
func PlayEvents(ctx context.Context, events model.EventSequence, bpm float64) error {
	path := TempMidiPath()
	defer os.Remove(path)

	s := midifile.EventsToSMF(events, bpm, constants.BeatResolution)
	if err := midifile.WriteSMF(s, path); err != nil {
		return err
	}
	return PlayFile(ctx, path)
}
