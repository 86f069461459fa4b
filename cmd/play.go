package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/midifile"
	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/playback"
	"github.com/comperml/pianoprep/quantize"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	playCmd.Flags().IntVar(&playPort, "port", -1, "midi out port for live playback instead of the synth")
	playCmd.Flags().Float64Var(&playBpm, "bpm", constants.DefaultBpm, "playback tempo")
	rootCmd.AddCommand(playCmd)
}

var playPort int
var playBpm float64

var playCmd = &cobra.Command{
	Use:   "play <midi-file>",
	Short: "Plays a midi file through the synth or a midi out port",
	Long:  `Plays a midi file through the synth or a midi out port`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		if playPort >= 0 {
			playLive(args[0], playPort)
			return
		}
		if err := playback.PlayFile(context.Background(), args[0]); err != nil {
			panic("Playback failed: " + err.Error())
		}
	},
}

// playLive re-quantizes the file and streams the events to a midi out port
// in real time, one tick at a time.
func playLive(path string, port int) {
	defer midi.CloseDriver()

	out, err := midi.OutPort(port)
	if err != nil {
		fmt.Printf("can't find out port %v: %v\n", port, err)
		return
	}
	send, err := midi.SendTo(out)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}

	parsed, err := midifile.Read(path)
	if err != nil {
		panic("Could not read midi file: " + err.Error())
	}
	roll, err := midifile.ToPianoroll(parsed, constants.BeatResolution)
	if err != nil {
		panic("Could not rasterize midi file: " + err.Error())
	}
	events, err := quantize.PianorollToEvents(roll, 0, 127)
	if err != nil {
		panic("Could not quantize: " + err.Error())
	}

	tick := time.Duration(float64(time.Minute) / (playBpm * float64(constants.BeatResolution)))
	for _, bucket := range events {
		for _, ev := range bucket {
			var msg midi.Message
			if ev.Kind == model.NoteOff {
				msg = midi.NoteOff(constants.CompChannel, ev.Pitch)
			} else {
				msg = midi.NoteOn(constants.CompChannel, ev.Pitch, ev.Velocity)
			}
			if err := send(msg); err != nil {
				fmt.Printf("ERROR: %s\n", err)
				return
			}
		}
		time.Sleep(tick)
	}
	fmt.Printf("Played %v ticks on port %v\n", len(events), port)
}
