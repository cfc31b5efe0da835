package input

import (
	"errors"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // registers the system MIDI driver
)

// MIDI translates messages from a MIDI input port into queue events. A
// missing or unopenable port is logged once and the adapter degrades to a
// no-op for the rest of the run; MIDI hardware is optional.
type MIDI struct {
	q    *Queue
	log  *slog.Logger
	stop func()
}

// OpenMIDI opens the named input port, or the first available port when name
// is empty, and starts listening. The returned adapter is always usable;
// Close is a no-op if the port never opened.
func OpenMIDI(name string, q *Queue, logger *slog.Logger) *MIDI {
	if logger == nil {
		logger = slog.Default()
	}
	m := &MIDI{q: q, log: logger}

	in, err := findInPort(name)
	if err != nil {
		logger.Warn("no MIDI input available, MIDI events disabled", "error", err)
		return m
	}
	stop, err := midi.ListenTo(in, m.handle)
	if err != nil {
		logger.Warn("MIDI listen failed, MIDI events disabled", "port", in.String(), "error", err)
		return m
	}
	m.stop = stop
	logger.Info("listening for MIDI", "port", in.String())
	return m
}

func findInPort(name string) (drivers.In, error) {
	if name != "" {
		return midi.FindInPort(name)
	}
	ports := midi.GetInPorts()
	if len(ports) == 0 {
		return nil, errors.New("no MIDI input ports")
	}
	return ports[0], nil
}

// handle runs on the driver goroutine; it must only enqueue.
func (m *MIDI) handle(msg midi.Message, _ int32) {
	var ch, a, b uint8
	var rel int16
	var abs uint16
	switch {
	case msg.GetNoteStart(&ch, &a, &b):
		m.push(NoteOn{Channel: ch, Note: a, Velocity: b})
	case msg.GetNoteEnd(&ch, &a):
		m.push(NoteOff{Channel: ch, Note: a})
	case msg.GetControlChange(&ch, &a, &b):
		m.push(ControlChange{Channel: ch, Control: a, Value: b})
	case msg.GetProgramChange(&ch, &a):
		m.push(ProgramChange{Channel: ch, Program: a})
	case msg.GetPitchBend(&ch, &rel, &abs):
		m.push(PitchBend{Channel: ch, Value: rel})
	}
}

func (m *MIDI) push(ev Event) {
	if !m.q.Push(ev) {
		m.log.Warn("input queue full, dropping MIDI event")
	}
}

// Close stops listening. Safe to call when no port was opened.
func (m *MIDI) Close() {
	if m.stop != nil {
		m.stop()
	}
}
