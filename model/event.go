package model

type EventKind uint8

const (
	NoteOn EventKind = iota
	NoteOff
)

// Event is one quantized note message at an absolute tick.
type Event struct {
	Tick     int
	Kind     EventKind
	Pitch    uint8
	Velocity uint8
}

// EventSequence buckets events by tick: index t holds every event
// emitted at tick t, in insertion order.
type EventSequence [][]Event
