package input

import "testing"

func TestQueuePushDrain(t *testing.T) {
	q := NewQueue(4)

	q.Push(NoteOn{Channel: 0, Note: 60, Velocity: 100})
	q.Push(ControlChange{Channel: 0, Control: 1, Value: 64})
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}

	var got []Event
	q.Drain(func(ev Event) { got = append(got, ev) })
	if len(got) != 2 {
		t.Fatalf("drained %d events, want 2", len(got))
	}
	if n, ok := got[0].(NoteOn); !ok || n.Note != 60 {
		t.Errorf("got[0] = %#v, want NoteOn{Note: 60}", got[0])
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)

	if !q.Push(NoteOn{Note: 1}) || !q.Push(NoteOn{Note: 2}) {
		t.Fatal("pushes within capacity should succeed")
	}
	if q.Push(NoteOn{Note: 3}) {
		t.Error("push beyond capacity should report false")
	}
	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}
}

func TestQueueDefaultSize(t *testing.T) {
	q := NewQueue(0)
	for i := 0; i < 256; i++ {
		if !q.Push(PitchBend{Value: int16(i)}) {
			t.Fatalf("push %d failed within default capacity", i)
		}
	}
	if q.Push(PitchBend{}) {
		t.Error("push beyond default capacity should report false")
	}
}

func TestDrainOnEmptyQueueReturns(t *testing.T) {
	q := NewQueue(1)
	called := false
	q.Drain(func(Event) { called = true })
	if called {
		t.Error("drain on an empty queue invoked the callback")
	}
}
