// Package input provides device and poller adapters that feed discrete
// events into the avatar engine's tick loop. Adapters run on their own
// goroutines (driver callbacks, watchers, pollers) and enqueue into a
// bounded Queue; the host drains the queue once per engine tick so all
// processing stays on the engine's single logical thread.
package input

// Event is a discrete input event produced by an adapter.
type Event interface{ event() }

// NoteOn is a MIDI note starting to play.
type NoteOn struct {
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// NoteOff is a MIDI note no longer playing.
type NoteOff struct {
	Channel uint8
	Note    uint8
}

// ControlChange is a MIDI controller movement.
type ControlChange struct {
	Channel uint8
	Control uint8
	Value   uint8
}

// ProgramChange is a MIDI program (instrument) switch.
type ProgramChange struct {
	Channel uint8
	Program uint8
}

// PitchBend is a MIDI pitch wheel movement, centered at zero.
type PitchBend struct {
	Channel uint8
	Value   int16
}

// FileChanged reports new contents for a watched file.
type FileChanged struct {
	Path     string
	Contents any
}

// URLChanged reports new contents for a polled URL.
type URLChanged struct {
	URL      string
	Contents any
}

func (NoteOn) event()        {}
func (NoteOff) event()       {}
func (ControlChange) event() {}
func (ProgramChange) event() {}
func (PitchBend) event()     {}
func (FileChanged) event()   {}
func (URLChanged) event()    {}

// Queue is a bounded event queue between adapter goroutines and the engine
// tick. Pushes never block; when the consumer falls behind, events are
// dropped rather than stalling a device driver callback.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue holding up to size events. size <= 0 uses a
// default of 256.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push enqueues ev, reporting false if the queue is full.
func (q *Queue) Push(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Drain invokes fn for every event currently queued, then returns. Call once
// per engine tick.
func (q *Queue) Drain(fn func(Event)) {
	for {
		select {
		case ev := <-q.ch:
			fn(ev)
		default:
			return
		}
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.ch) }
